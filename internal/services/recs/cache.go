package recs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultCache is a short-TTL Redis cache of computed recommendation results,
// keyed by (user, algorithm, limit). Cache failures are never surfaced to the
// caller; a broken cache degrades to recomputation. All methods are safe on a
// nil receiver so the pipeline can run without Redis.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache creates a result cache with the given TTL
func NewResultCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ResultCache {
	return &ResultCache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached result, or nil on miss or error
func (c *ResultCache) Get(ctx context.Context, userID uuid.UUID, algorithm models.Algorithm, limit int) *models.RecommendationResult {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, cacheKey(userID, algorithm, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("recommendation_cache_read_failed", zap.Error(err))
		}
		return nil
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("recommendation_cache_decode_failed", zap.Error(err))
		return nil
	}

	return &result
}

// Set stores a result. Failures are logged and swallowed.
func (c *ResultCache) Set(ctx context.Context, userID uuid.UUID, algorithm models.Algorithm, limit int, result *models.RecommendationResult) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("recommendation_cache_encode_failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, cacheKey(userID, algorithm, limit), data, c.ttl).Err(); err != nil {
		c.logger.Warn("recommendation_cache_write_failed", zap.Error(err))
	}
}

// HealthCheck verifies the cache connection is usable
func (c *ResultCache) HealthCheck(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func cacheKey(userID uuid.UUID, algorithm models.Algorithm, limit int) string {
	return fmt.Sprintf("recs:%s:%s:%d", userID, algorithm, limit)
}
