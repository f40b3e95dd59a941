package product

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// Service handles product and inventory business logic
type Service struct {
	repo     domain.ProductRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new product service
func NewService(repo domain.ProductRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.Get(),
		logger:   log,
	}
}

// Create creates a new product listing
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"seller_id":  product.SellerID,
		"name":       product.Name,
	}).Info("Product created successfully")

	return nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// List retrieves a paginated list of active products
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	return products, total, nil
}

// Update updates an existing product. Price changes never touch existing
// orders: line items keep the unit price snapshotted at order time.
func (s *Service) Update(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product updated successfully")

	return nil
}

// Deactivate takes a product off the marketplace
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		s.logger.Error("Failed to deactivate product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deactivated")

	return nil
}

// GetInventory retrieves the inventory row for a product
func (s *Service) GetInventory(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	inv, err := s.repo.GetInventory(ctx, productID)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to get inventory", err)
		}
		return nil, err
	}

	return inv, nil
}

// SetInventory creates or replaces the inventory row for a product
func (s *Service) SetInventory(ctx context.Context, inv *domain.Inventory) error {
	if inv.Quantity < 0 {
		return domain.ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, inv.ProductID); err != nil {
		return err
	}

	if err := s.repo.SetInventory(ctx, inv); err != nil {
		s.logger.Error("Failed to set inventory", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": inv.ProductID,
		"quantity":   inv.Quantity,
		"managed":    inv.Managed,
	}).Info("Inventory set")

	return nil
}

// AdjustInventory adds delta to the quantity; the result never goes negative
func (s *Service) AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) (*domain.Inventory, error) {
	inv, err := s.repo.AdjustInventory(ctx, productID, delta)
	if err != nil {
		s.logger.Error("Failed to adjust inventory", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
		"quantity":   inv.Quantity,
	}).Info("Inventory adjusted")

	return inv, nil
}
