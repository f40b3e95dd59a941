package address

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// Service handles address business logic
type Service struct {
	repo     domain.AddressRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new address service
func NewService(repo domain.AddressRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.Get(),
		logger:   log,
	}
}

// Create creates a new address for the user
func (s *Service) Create(ctx context.Context, addr *domain.Address) error {
	if err := s.validate.Struct(addr); err != nil {
		s.logger.Error("Address validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, addr); err != nil {
		s.logger.Error("Failed to create address", err)
		return err
	}

	return nil
}

// GetByID retrieves an address; only the owner may read it
func (s *Service) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Address, error) {
	addr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if addr.UserID != userID {
		return nil, fmt.Errorf("address belongs to another user: %w", domain.ErrForbidden)
	}

	return addr, nil
}

// ListByUser retrieves the user's addresses
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list addresses", err)
		return nil, err
	}

	return addresses, nil
}

// Delete removes an address; only the owner may delete it
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
