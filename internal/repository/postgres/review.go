package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vinomercato/marketplace/internal/domain"
)

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review. The unique index on (order_id, reviewer_id)
// backs the one-review-per-order rule; a violation maps to ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (reviewer_id, target_id, order_id, rating, comment, wine_id, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.ReviewerID,
		review.TargetID,
		review.OrderID,
		review.Rating,
		review.Comment,
		review.WineID,
		review.Type,
	).Scan(
		&review.ID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, reviewer_id, target_id, order_id, rating, comment, wine_id, type, seller_response, seller_responded_at, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &review, nil
}

// GetByOrderAndReviewer retrieves the review a reviewer left on an order
func (r *ReviewRepository) GetByOrderAndReviewer(ctx context.Context, orderID, reviewerID uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, reviewer_id, target_id, order_id, rating, comment, wine_id, type, seller_response, seller_responded_at, created_at, updated_at
		FROM reviews
		WHERE order_id = $1 AND reviewer_id = $2
	`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, orderID, reviewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &review, nil
}

// ListByTarget retrieves a seller's reviews, most recent first
func (r *ReviewRepository) ListByTarget(ctx context.Context, targetID uuid.UUID, filters domain.ReviewFilters) ([]*domain.Review, error) {
	var reviews []*domain.Review

	if filters.Rating >= 1 && filters.Rating <= 5 {
		query := `
			SELECT id, reviewer_id, target_id, order_id, rating, comment, wine_id, type, seller_response, seller_responded_at, created_at, updated_at
			FROM reviews
			WHERE target_id = $1 AND rating = $2
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`
		if err := r.db.SelectContext(ctx, &reviews, query, targetID, filters.Rating, filters.Limit, filters.Offset); err != nil {
			return nil, err
		}
		return reviews, nil
	}

	query := `
		SELECT id, reviewer_id, target_id, order_id, rating, comment, wine_id, type, seller_response, seller_responded_at, created_at, updated_at
		FROM reviews
		WHERE target_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &reviews, query, targetID, filters.Limit, filters.Offset); err != nil {
		return nil, err
	}

	return reviews, nil
}

// CountByTarget returns the number of reviews matching the filters
func (r *ReviewRepository) CountByTarget(ctx context.Context, targetID uuid.UUID, filters domain.ReviewFilters) (int, error) {
	var count int

	if filters.Rating >= 1 && filters.Rating <= 5 {
		query := `SELECT COUNT(*) FROM reviews WHERE target_id = $1 AND rating = $2`
		if err := r.db.GetContext(ctx, &count, query, targetID, filters.Rating); err != nil {
			return 0, err
		}
		return count, nil
	}

	query := `SELECT COUNT(*) FROM reviews WHERE target_id = $1`
	if err := r.db.GetContext(ctx, &count, query, targetID); err != nil {
		return 0, err
	}

	return count, nil
}

// RatingDistribution returns the count of reviews per rating value
func (r *ReviewRepository) RatingDistribution(ctx context.Context, targetID uuid.UUID) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE target_id = $1
		GROUP BY rating
	`

	rows, err := r.db.QueryxContext(ctx, query, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		distribution[rating] = count
	}

	return distribution, rows.Err()
}

// Update updates rating and comment of an existing review
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = $3
		WHERE id = $4
		RETURNING updated_at
	`

	review.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
		review.ID,
	).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// SetResponse stores the seller's response on a review
func (r *ReviewRepository) SetResponse(ctx context.Context, id uuid.UUID, response string, respondedAt time.Time) error {
	query := `
		UPDATE reviews
		SET seller_response = $1, seller_responded_at = $2, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, response, respondedAt, id)
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

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
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
