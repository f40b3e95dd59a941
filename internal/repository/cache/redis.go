package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vinomercato/marketplace/internal/domain"
)

// RedisCache implements caching for seller stats and seller review listings
type RedisCache struct {
	client           *redis.Client
	sellerStatsTTL   time.Duration
	sellerReviewsTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, sellerStatsTTL, sellerReviewsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:           client,
		sellerStatsTTL:   sellerStatsTTL,
		sellerReviewsTTL: sellerReviewsTTL,
	}
}

// Seller stats cache keys and methods

func (c *RedisCache) sellerStatsKey(sellerID uuid.UUID) string {
	return fmt.Sprintf("seller:%s:stats", sellerID.String())
}

// GetSellerStats retrieves cached seller stats
func (c *RedisCache) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	key := c.sellerStatsKey(sellerID)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var stats domain.SellerStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// SetSellerStats stores seller stats in cache
func (c *RedisCache) SetSellerStats(ctx context.Context, stats *domain.SellerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := c.sellerStatsKey(stats.SellerID)
	return c.client.Set(ctx, key, data, c.sellerStatsTTL).Err()
}

// InvalidateSellerStats removes seller stats from cache
func (c *RedisCache) InvalidateSellerStats(ctx context.Context, sellerID uuid.UUID) error {
	key := c.sellerStatsKey(sellerID)
	return c.client.Del(ctx, key).Err()
}

// Seller reviews list cache keys and methods

func (c *RedisCache) sellerReviewsKey(sellerID uuid.UUID, rating, limit, offset int) string {
	return fmt.Sprintf("seller:%s:reviews:rating:%d:limit:%d:offset:%d", sellerID.String(), rating, limit, offset)
}

func (c *RedisCache) sellerCacheKeysSet(sellerID uuid.UUID) string {
	return fmt.Sprintf("seller:%s:cache_keys", sellerID.String())
}

// GetSellerReviews retrieves a cached reviews page for a seller
func (c *RedisCache) GetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters) ([]*domain.Review, error) {
	key := c.sellerReviewsKey(sellerID, filters.Rating, filters.Limit, filters.Offset)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var reviews []*domain.Review
	if err := json.Unmarshal([]byte(val), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// SetSellerReviews stores a reviews page in cache and tracks the key in a SET
func (c *RedisCache) SetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters, reviews []*domain.Review) error {
	key := c.sellerReviewsKey(sellerID, filters.Rating, filters.Limit, filters.Offset)
	trackingKey := c.sellerCacheKeysSet(sellerID)

	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.sellerReviewsTTL)
	pipe.SAdd(ctx, trackingKey, key)
	pipe.Expire(ctx, trackingKey, c.sellerReviewsTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSellerReviews removes all cached review pages for a seller
func (c *RedisCache) InvalidateSellerReviews(ctx context.Context, sellerID uuid.UUID) error {
	trackingKey := c.sellerCacheKeysSet(sellerID)

	keys, err := c.client.SMembers(ctx, trackingKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, trackingKey)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// InvalidateAllSellerCache invalidates every cache entry for a seller
func (c *RedisCache) InvalidateAllSellerCache(ctx context.Context, sellerID uuid.UUID) error {
	if err := c.InvalidateSellerStats(ctx, sellerID); err != nil && err != redis.Nil {
		return err
	}

	if err := c.InvalidateSellerReviews(ctx, sellerID); err != nil && err != redis.Nil {
		return err
	}

	return nil
}
