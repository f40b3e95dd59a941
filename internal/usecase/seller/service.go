package seller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// StatsCache defines the cache operations the seller service needs
type StatsCache interface {
	GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error)
	SetSellerStats(ctx context.Context, stats *domain.SellerStats) error
}

// Service handles seller profile and stats business logic
type Service struct {
	repo     domain.SellerRepository
	cache    StatsCache
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new seller service
func NewService(repo domain.SellerRepository, cache StatsCache, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		validate: validation.Get(),
		logger:   log,
	}
}

// Create creates a new seller profile
func (s *Service) Create(ctx context.Context, seller *domain.Seller) error {
	if err := s.validate.Struct(seller); err != nil {
		s.logger.Error("Seller validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, seller); err != nil {
		s.logger.Error("Failed to create seller", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"seller_id":    seller.ID,
		"display_name": seller.DisplayName,
	}).Info("Seller created successfully")

	return nil
}

// GetByID retrieves a seller by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	seller, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Seller not found: %s", id)
		} else {
			s.logger.Error("Failed to get seller", err)
		}
		return nil, err
	}

	return seller, nil
}

// GetByUserID retrieves the seller profile owned by a user
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Seller, error) {
	seller, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to get seller by user", err)
		}
		return nil, err
	}

	return seller, nil
}

// GetStats returns the seller's derived rating summary, reading through the
// cache. The summary is a materialized view of the review table; slightly
// stale values are acceptable here.
func (s *Service) GetStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	stats, err := s.cache.GetSellerStats(ctx, sellerID)
	if err == nil {
		return stats, nil
	}

	seller, err := s.repo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	stats = &domain.SellerStats{
		SellerID:           seller.ID,
		SellerRating:       seller.SellerRating,
		SellerReviewCount:  seller.SellerReviewCount,
		SellerResponseRate: seller.SellerResponseRate,
	}

	if err := s.cache.SetSellerStats(ctx, stats); err != nil {
		s.logger.Warnf("Failed to cache stats for seller %s: %v", sellerID, err)
	}

	return stats, nil
}
