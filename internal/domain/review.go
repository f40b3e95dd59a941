package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewType distinguishes order reviews from standalone wine reviews
type ReviewType string

const (
	ReviewTypeOrder ReviewType = "order_review"
	ReviewTypeWine  ReviewType = "wine_review"
)

// Review is a buyer's rating of a seller for a delivered order.
// At most one review exists per (order, reviewer) pair.
type Review struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	ReviewerID        uuid.UUID  `json:"reviewer_id" db:"reviewer_id" validate:"required"`
	TargetID          uuid.UUID  `json:"target_id" db:"target_id"`
	OrderID           uuid.UUID  `json:"order_id" db:"order_id" validate:"required"`
	Rating            int        `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Comment           *string    `json:"comment,omitempty" db:"comment"`
	WineID            *uuid.UUID `json:"wine_id,omitempty" db:"wine_id"`
	Type              ReviewType `json:"type" db:"type"`
	SellerResponse    *string    `json:"seller_response,omitempty" db:"seller_response"`
	SellerRespondedAt *time.Time `json:"seller_responded_at,omitempty" db:"seller_responded_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// ReviewFilters narrows seller review listings
type ReviewFilters struct {
	Rating int
	Limit  int
	Offset int
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// GetByOrderAndReviewer retrieves the review a reviewer left on an
	// order, or ErrNotFound
	GetByOrderAndReviewer(ctx context.Context, orderID, reviewerID uuid.UUID) (*Review, error)

	// ListByTarget retrieves a seller's reviews, most recent first
	ListByTarget(ctx context.Context, targetID uuid.UUID, filters ReviewFilters) ([]*Review, error)

	// CountByTarget returns the number of reviews matching the filters
	CountByTarget(ctx context.Context, targetID uuid.UUID, filters ReviewFilters) (int, error)

	// RatingDistribution returns the count of reviews per rating value (1-5)
	RatingDistribution(ctx context.Context, targetID uuid.UUID) (map[int]int, error)

	// Update updates rating and comment of an existing review
	Update(ctx context.Context, review *Review) error

	// SetResponse stores the seller's response on a review
	SetResponse(ctx context.Context, id uuid.UUID, response string, respondedAt time.Time) error

	// Delete removes a review
	Delete(ctx context.Context, id uuid.UUID) error
}
