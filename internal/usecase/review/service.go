package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// SellerCache defines the cache operations the review service needs
type SellerCache interface {
	GetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters) ([]*domain.Review, error)
	SetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters, reviews []*domain.Review) error
	InvalidateAllSellerCache(ctx context.Context, sellerID uuid.UUID) error
}

// ReviewEvent is published after every review mutation so the rating worker
// can recompute the affected seller's summary
type ReviewEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	SellerID  uuid.UUID `json:"seller_id"`
	ReviewID  uuid.UUID `json:"review_id"`
}

// CreateInput carries a buyer's new review of a delivered order
type CreateInput struct {
	OrderID uuid.UUID  `validate:"required"`
	Rating  int        `validate:"required,min=1,max=5"`
	Comment *string    `validate:"omitempty,max=5000"`
	WineID  *uuid.UUID
	Type    domain.ReviewType
}

// SellerReviewsResult is a seller's review page plus the cached summary
type SellerReviewsResult struct {
	Reviews      []*domain.Review `json:"reviews"`
	Total        int              `json:"total"`
	Seller       *domain.Seller   `json:"seller"`
	Distribution map[int]int      `json:"rating_distribution"`
}

// Service handles review business logic with caching and event publishing
type Service struct {
	reviews   domain.ReviewRepository
	orders    domain.OrderRepository
	sellers   domain.SellerRepository
	cache     SellerCache
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	reviews domain.ReviewRepository,
	orders domain.OrderRepository,
	sellers domain.SellerRepository,
	cache SellerCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		reviews:   reviews,
		orders:    orders,
		sellers:   sellers,
		cache:     cache,
		publisher: publisher,
		validate:  validation.Get(),
		logger:    log,
	}
}

// Create creates a review for a delivered order. Only the buyer may review,
// only once per order. The seller rating recompute is dispatched
// asynchronously and never fails the request.
func (s *Service) Create(ctx context.Context, reviewerID uuid.UUID, input CreateInput) (*domain.Review, error) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Error("Review validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != reviewerID {
		return nil, fmt.Errorf("only the buyer can review this order: %w", domain.ErrForbidden)
	}

	if order.Status != domain.OrderStatusDelivered {
		return nil, fmt.Errorf("can only review delivered orders: %w", domain.ErrInvalidState)
	}

	if _, err := s.reviews.GetByOrderAndReviewer(ctx, input.OrderID, reviewerID); err == nil {
		return nil, fmt.Errorf("order already reviewed: %w", domain.ErrConflict)
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	if len(order.Items) == 0 {
		return nil, domain.ErrInternal
	}
	sellerID := order.Items[0].SellerID

	reviewType := input.Type
	if reviewType == "" {
		reviewType = domain.ReviewTypeOrder
	}

	review := &domain.Review{
		ReviewerID: reviewerID,
		TargetID:   sellerID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		WineID:     input.WineID,
		Type:       reviewType,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review", err)
		return nil, err
	}

	s.invalidateSellerCache(ctx, sellerID)
	s.publishEvent("review.created", sellerID, review.ID)

	s.logger.WithFields(map[string]interface{}{
		"review_id": review.ID,
		"order_id":  review.OrderID,
		"seller_id": sellerID,
		"rating":    review.Rating,
	}).Info("Review created successfully")

	return review, nil
}

// GetByID retrieves a review by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Review not found: %s", id)
		} else {
			s.logger.Error("Failed to get review", err)
		}
		return nil, err
	}

	return review, nil
}

// GetSellerReviews retrieves a seller's reviews with pagination, the rating
// distribution, and the cached summary stats
func (s *Service) GetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters) (*SellerReviewsResult, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	seller, err := s.sellers.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.cache.GetSellerReviews(ctx, sellerID, filters)
	if err != nil {
		s.logger.Debugf("Cache miss for seller %s reviews", sellerID)
		reviews, err = s.reviews.ListByTarget(ctx, sellerID, filters)
		if err != nil {
			s.logger.Error("Failed to list seller reviews", err)
			return nil, err
		}
		if err := s.cache.SetSellerReviews(ctx, sellerID, filters, reviews); err != nil {
			s.logger.Warnf("Failed to cache reviews for seller %s: %v", sellerID, err)
		}
	}

	total, err := s.reviews.CountByTarget(ctx, sellerID, filters)
	if err != nil {
		s.logger.Error("Failed to count seller reviews", err)
		return nil, err
	}

	distribution, err := s.reviews.RatingDistribution(ctx, sellerID)
	if err != nil {
		s.logger.Error("Failed to load rating distribution", err)
		return nil, err
	}

	return &SellerReviewsResult{
		Reviews:      reviews,
		Total:        total,
		Seller:       seller,
		Distribution: distribution,
	}, nil
}

// ReviewableOrders retrieves the buyer's delivered orders that still lack a
// review, most recently delivered first
func (s *Service) ReviewableOrders(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orders.FindReviewable(ctx, buyerID, 50)
	if err != nil {
		s.logger.Error("Failed to find reviewable orders", err)
		return nil, err
	}

	return orders, nil
}

// Update changes rating and comment. Only the original reviewer may update.
func (s *Service) Update(ctx context.Context, reviewerID uuid.UUID, reviewID uuid.UUID, rating int, comment *string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.ReviewerID != reviewerID {
		return nil, fmt.Errorf("you can only update your own reviews: %w", domain.ErrForbidden)
	}

	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidInput
	}

	review.Rating = rating
	review.Comment = comment

	if err := s.reviews.Update(ctx, review); err != nil {
		s.logger.Error("Failed to update review", err)
		return nil, err
	}

	s.invalidateSellerCache(ctx, review.TargetID)
	s.publishEvent("review.updated", review.TargetID, review.ID)

	s.logger.WithFields(map[string]interface{}{
		"review_id": review.ID,
		"seller_id": review.TargetID,
		"rating":    review.Rating,
	}).Info("Review updated successfully")

	return review, nil
}

// Respond stores the seller's response. Only the review's target seller may
// respond; responding triggers a response-rate recompute.
func (s *Service) Respond(ctx context.Context, sellerID uuid.UUID, reviewID uuid.UUID, response string) (*domain.Review, error) {
	if response == "" {
		return nil, domain.ErrInvalidInput
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.TargetID != sellerID {
		return nil, fmt.Errorf("you can only respond to reviews about you: %w", domain.ErrForbidden)
	}

	respondedAt := time.Now()
	if err := s.reviews.SetResponse(ctx, reviewID, response, respondedAt); err != nil {
		s.logger.Error("Failed to set review response", err)
		return nil, err
	}

	review.SellerResponse = &response
	review.SellerRespondedAt = &respondedAt

	s.invalidateSellerCache(ctx, sellerID)
	s.publishEvent("review.responded", sellerID, review.ID)

	s.logger.WithFields(map[string]interface{}{
		"review_id": reviewID,
		"seller_id": sellerID,
	}).Info("Seller responded to review")

	return review, nil
}

// Delete removes a review. The original reviewer may delete their own
// review; administrators may delete any review.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, actorRole string, reviewID uuid.UUID) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	isAdmin := actorRole == "admin" || actorRole == "super_admin"
	if review.ReviewerID != actorID && !isAdmin {
		return fmt.Errorf("you can only delete your own reviews: %w", domain.ErrForbidden)
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", err)
		return err
	}

	s.invalidateSellerCache(ctx, review.TargetID)
	s.publishEvent("review.deleted", review.TargetID, review.ID)

	s.logger.WithFields(map[string]interface{}{
		"review_id": reviewID,
		"seller_id": review.TargetID,
	}).Info("Review deleted successfully")

	return nil
}

func (s *Service) invalidateSellerCache(ctx context.Context, sellerID uuid.UUID) {
	// Stale cache would show outdated ratings and review lists
	if err := s.cache.InvalidateAllSellerCache(ctx, sellerID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for seller %s: %v", sellerID, err)
	}
}

// publishEvent publishes a review event (non-blocking)
func (s *Service) publishEvent(eventType string, sellerID, reviewID uuid.UUID) {
	event := ReviewEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		SellerID:  sellerID,
		ReviewID:  reviewID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for review %s", reviewID)
		return
	}

	// Publish in background to avoid blocking the request
	go func() {
		if err := s.publisher.Publish(context.Background(), "reviews.events", data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for review %s", reviewID)
		}
	}()
}
