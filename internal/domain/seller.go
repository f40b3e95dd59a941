package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Seller is a merchant profile. The rating fields are a derived cache
// maintained by the rating worker; the review table is the source of truth.
type Seller struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	DisplayName        string    `json:"display_name" db:"display_name" validate:"required,min=1,max=255"`
	SellerRating       float64   `json:"seller_rating" db:"seller_rating"`
	SellerReviewCount  int       `json:"seller_review_count" db:"seller_review_count"`
	SellerResponseRate float64   `json:"seller_response_rate" db:"seller_response_rate"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// SellerStats is the cached rating summary for a seller
type SellerStats struct {
	SellerID           uuid.UUID `json:"seller_id"`
	SellerRating       float64   `json:"seller_rating"`
	SellerReviewCount  int       `json:"seller_review_count"`
	SellerResponseRate float64   `json:"seller_response_rate"`
}

// SellerRepository defines the interface for seller data access
type SellerRepository interface {
	// Create creates a new seller profile
	Create(ctx context.Context, seller *Seller) error

	// GetByID retrieves a seller by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Seller, error)

	// GetByUserID retrieves the seller profile owned by a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error)

	// UpsertStats writes the derived rating summary onto the seller record
	UpsertStats(ctx context.Context, stats *SellerStats) error
}
