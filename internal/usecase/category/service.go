package category

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// Service handles category taxonomy business logic
type Service struct {
	repo     domain.CategoryRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new category service
func NewService(repo domain.CategoryRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.Get(),
		logger:   log,
	}
}

// Create creates a new category
func (s *Service) Create(ctx context.Context, category *domain.Category) error {
	if err := s.validate.Struct(category); err != nil {
		s.logger.Error("Category validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if err != domain.ErrConflict {
			s.logger.Error("Failed to create category", err)
		}
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	}).Info("Category created successfully")

	return nil
}

// GetByID retrieves a category by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Category not found: %s", id)
		} else {
			s.logger.Error("Failed to get category", err)
		}
		return nil, err
	}

	return category, nil
}

// List retrieves all categories ordered by name
func (s *Service) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", err)
		return nil, err
	}

	return categories, nil
}

// Update updates an existing category
func (s *Service) Update(ctx context.Context, category *domain.Category) error {
	if err := s.validate.Struct(category); err != nil {
		s.logger.Error("Category validation failed", err)
		return domain.ErrInvalidInput
	}

	// A category cannot be its own parent
	if category.ParentID != nil && *category.ParentID == category.ID {
		return domain.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if err != domain.ErrNotFound && err != domain.ErrConflict {
			s.logger.Error("Failed to update category", err)
		}
		return err
	}

	return nil
}

// Delete removes a category. Listings in the category survive with no
// category link.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to delete category", err)
		}
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": id,
	}).Info("Category deleted")

	return nil
}
