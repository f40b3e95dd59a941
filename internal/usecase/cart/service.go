package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/pricing"
)

// CartView is a cart with resolved products and computed totals
type CartView struct {
	*domain.Cart
	SubtotalCents int64 `json:"subtotal_cents"`
	ItemsCount    int   `json:"items_count"`
}

// Service handles cart business logic
type Service struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	logger   *logger.Logger
}

// NewService creates a new cart service
func NewService(carts domain.CartRepository, products domain.ProductRepository, log *logger.Logger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		logger:   log,
	}
}

// Get returns the user's cart with products attached and totals computed
// from current product prices
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", err)
		return nil, err
	}

	view := &CartView{Cart: cart}
	for _, item := range cart.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if err == domain.ErrNotFound {
				// Product was deactivated after being added; skip it
				continue
			}
			return nil, err
		}
		item.Product = product
		view.SubtotalCents += int64(item.Qty) * product.PriceCents
		view.ItemsCount += item.Qty
	}

	return view, nil
}

// AddItem puts a product in the user's cart, merging quantities. Managed
// stock is checked so the cart never promises more than is available.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty int) (*domain.CartItem, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product is not available: %w", domain.ErrInvalidInput)
	}

	if product.Inventory != nil && product.Inventory.Managed && product.Inventory.Quantity < qty {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrInsufficientStock)
	}

	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.AddItem(ctx, cart.ID, productID, qty)
	if err != nil {
		s.logger.Error("Failed to add cart item", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
		"qty":        item.Qty,
	}).Info("Item added to cart")

	return item, nil
}

// UpdateItem sets the quantity of a cart item owned by the user
func (s *Service) UpdateItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidInput
	}

	if err := s.ownItem(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.carts.UpdateItemQty(ctx, itemID, qty); err != nil {
		s.logger.Error("Failed to update cart item", err)
		return err
	}

	return nil
}

// RemoveItem deletes a cart item owned by the user
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) error {
	if err := s.ownItem(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		s.logger.Error("Failed to remove cart item", err)
		return err
	}

	return nil
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}

	return s.carts.Clear(ctx, cart.ID)
}

// Quote computes the full checkout fee breakdown for the cart's current
// contents. This is the fee-display surface: the cents the buyer will see.
func (s *Service) Quote(ctx context.Context, userID uuid.UUID) (*pricing.FeeBreakdown, error) {
	view, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if view.ItemsCount == 0 {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrInvalidState)
	}

	breakdown := pricing.CalculateFees(view.SubtotalCents, view.ItemsCount)
	return &breakdown, nil
}

func (s *Service) ownItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) error {
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}

	if item.CartID != cart.ID {
		return fmt.Errorf("cart item belongs to another user: %w", domain.ErrForbidden)
	}

	return nil
}
