package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vinomercato/marketplace/internal/domain"
)

// SellerRepository implements domain.SellerRepository for PostgreSQL
type SellerRepository struct {
	db *sqlx.DB
}

// NewSellerRepository creates a new PostgreSQL seller repository
func NewSellerRepository(db *sqlx.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// Create creates a new seller profile
func (r *SellerRepository) Create(ctx context.Context, seller *domain.Seller) error {
	query := `
		INSERT INTO sellers (user_id, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, seller_rating, seller_review_count, seller_response_rate, created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowxContext(
		ctx,
		query,
		seller.UserID,
		seller.DisplayName,
		now,
		now,
	).Scan(
		&seller.ID,
		&seller.SellerRating,
		&seller.SellerReviewCount,
		&seller.SellerResponseRate,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a seller by ID
func (r *SellerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	query := `
		SELECT id, user_id, display_name, seller_rating, seller_review_count, seller_response_rate, created_at, updated_at
		FROM sellers
		WHERE id = $1
	`

	var seller domain.Seller
	err := r.db.GetContext(ctx, &seller, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &seller, nil
}

// GetByUserID retrieves the seller profile owned by a user
func (r *SellerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Seller, error) {
	query := `
		SELECT id, user_id, display_name, seller_rating, seller_review_count, seller_response_rate, created_at, updated_at
		FROM sellers
		WHERE user_id = $1
	`

	var seller domain.Seller
	err := r.db.GetContext(ctx, &seller, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &seller, nil
}

// UpsertStats writes the derived rating summary onto the seller record.
// Last writer wins: overlapping recomputations each persist a value that is
// consistent with their own snapshot of the review set.
func (r *SellerRepository) UpsertStats(ctx context.Context, stats *domain.SellerStats) error {
	query := `
		UPDATE sellers
		SET seller_rating = $1, seller_review_count = $2, seller_response_rate = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		stats.SellerRating,
		stats.SellerReviewCount,
		stats.SellerResponseRate,
		time.Now(),
		stats.SellerID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
