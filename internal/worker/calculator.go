package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

const (
	// maxRatedReviews bounds the recomputation window for performance
	maxRatedReviews = 100

	// recencyTimeConstantDays is the exponential decay time constant:
	// a review's recency weight halves roughly every 125 days
	recencyTimeConstantDays = 180.0

	// positionWeightStep is the per-position dampening applied on top of
	// recency, slightly favoring entries earlier in the list
	positionWeightStep = 0.01
)

// ratedReview is the projection of a review needed for rating math
type ratedReview struct {
	Rating    int       `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
}

// Calculator recomputes seller rating summaries from the review table.
// The summary on the seller row is a cache: rerunning the computation on an
// unchanged review set reproduces the same value.
type Calculator struct {
	db      *sqlx.DB
	sellers domain.SellerRepository
	logger  *logger.Logger
	now     func() time.Time
}

// NewCalculator creates a new rating calculator
func NewCalculator(db *sqlx.DB, sellers domain.SellerRepository, logger *logger.Logger) *Calculator {
	return &Calculator{
		db:      db,
		sellers: sellers,
		logger:  logger,
		now:     time.Now,
	}
}

// weightedRating computes the decay-weighted average of reviews ordered
// most recent first. The summary persisted by RecomputeAll is derived from this.
func weightedRating(reviews []ratedReview, now time.Time) float64 {
	var weightedSum, totalWeight float64

	for i, review := range reviews {
		daysSince := now.Sub(review.CreatedAt).Hours() / 24
		recencyWeight := math.Exp(-daysSince / recencyTimeConstantDays)
		positionWeight := 1 / (1 + float64(i)*positionWeightStep)
		weight := recencyWeight * positionWeight

		weightedSum += float64(review.Rating) * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0
	}

	return weightedSum / totalWeight
}

// computeRating loads the seller's most recent reviews and returns the
// weighted rating and the review count inside the window
func (c *Calculator) computeRating(ctx context.Context, sellerID uuid.UUID) (float64, int, error) {
	query := `
		SELECT rating, created_at
		FROM reviews
		WHERE target_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var reviews []ratedReview
	if err := c.db.SelectContext(ctx, &reviews, query, sellerID, maxRatedReviews); err != nil {
		return 0, 0, fmt.Errorf("failed to load reviews for seller %s: %w", sellerID, err)
	}

	return weightedRating(reviews, c.now()), len(reviews), nil
}

// computeResponseRate returns the percentage of the seller's reviews that
// carry a seller response
func (c *Calculator) computeResponseRate(ctx context.Context, sellerID uuid.UUID) (float64, error) {
	query := `
		SELECT COUNT(*) AS total, COUNT(seller_response) AS responded
		FROM reviews
		WHERE target_id = $1
	`

	var counts struct {
		Total     int `db:"total"`
		Responded int `db:"responded"`
	}
	if err := c.db.GetContext(ctx, &counts, query, sellerID); err != nil {
		return 0, fmt.Errorf("failed to count responses for seller %s: %w", sellerID, err)
	}

	if counts.Total == 0 {
		return 0, nil
	}

	return float64(counts.Responded) / float64(counts.Total) * 100, nil
}

// RecomputeAll refreshes the weighted rating and the response rate and
// persists them on the seller row in one write. Each run works from its own
// snapshot of the review table; between overlapping runs the last writer
// wins.
func (c *Calculator) RecomputeAll(ctx context.Context, sellerID uuid.UUID) error {
	rating, count, err := c.computeRating(ctx, sellerID)
	if err != nil {
		return err
	}

	responseRate, err := c.computeResponseRate(ctx, sellerID)
	if err != nil {
		return err
	}

	err = c.sellers.UpsertStats(ctx, &domain.SellerStats{
		SellerID:           sellerID,
		SellerRating:       rating,
		SellerReviewCount:  count,
		SellerResponseRate: responseRate,
	})
	if err != nil {
		// Seller gone - not an error, just log
		if errors.Is(err, domain.ErrNotFound) {
			c.logger.WithFields(map[string]any{
				"seller_id": sellerID.String(),
			}).Info("Seller not found, skipping rating update")
			return nil
		}
		return fmt.Errorf("failed to persist seller stats: %w", err)
	}

	c.logger.WithFields(map[string]any{
		"seller_id":     sellerID.String(),
		"rating":        rating,
		"review_count":  count,
		"response_rate": responseRate,
	}).Info("Seller rating summary updated")

	return nil
}
