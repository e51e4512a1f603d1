package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"guard-matching/internal/common/logger"
	"guard-matching/internal/models"

	"github.com/redis/go-redis/v9"
)

const rosterCacheKey = "guards:roster"

// RosterSource is anything that can list the full guard roster.
type RosterSource interface {
	ListGuards(ctx context.Context) ([]models.GuardProfile, error)
}

// CachedRoster is a cache-aside wrapper over a RosterSource. Redis failures
// are logged and fall through to the source.
type CachedRoster struct {
	source RosterSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRoster(source RosterSource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedRoster {
	return &CachedRoster{source: source, redis: rdb, ttl: ttl, logger: log}
}

func (c *CachedRoster) ListGuards(ctx context.Context) ([]models.GuardProfile, error) {
	cached, err := c.redis.Get(ctx, rosterCacheKey).Result()
	switch {
	case err == nil:
		var guards []models.GuardProfile
		if jsonErr := json.Unmarshal([]byte(cached), &guards); jsonErr == nil {
			return guards, nil
		}
		c.logger.Warn("discarding unreadable roster cache entry", nil)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("roster cache read failed", map[string]interface{}{"error": err.Error()})
	}

	guards, err := c.source.ListGuards(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(guards); err == nil {
		if err := c.redis.Set(ctx, rosterCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("roster cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return guards, nil
}

// Invalidate drops the cached roster so the next read hits the source.
func (c *CachedRoster) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, rosterCacheKey).Err()
}
