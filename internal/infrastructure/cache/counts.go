package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const countsKey = "assistant:counts"

// CountsCache holds the coarse mentee and survey totals the assistant
// mentions in small talk. Redis is preferred so replicas agree; when Redis
// is down or absent the in-process store takes over. Either way a cache
// failure only costs a database round trip.
type CountsCache struct {
	redis  *redis.Client
	memory *MemoryStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCountsCache creates a CountsCache. The Redis client may be nil.
func NewCountsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CountsCache {
	return &CountsCache{
		redis:  client,
		memory: NewMemoryStore(),
		ttl:    ttl,
		logger: logger,
	}
}

// GetCounts returns the cached totals, if any
func (c *CountsCache) GetCounts(ctx context.Context) (int64, int64, bool) {
	var raw string
	if c.redis != nil {
		val, err := c.redis.Get(ctx, countsKey).Result()
		switch {
		case err == nil:
			raw = val
		case err == redis.Nil:
			return 0, 0, false
		default:
			c.logger.Debug("redis counts read failed, trying memory", zap.Error(err))
		}
	}
	if raw == "" {
		val, ok := c.memory.Get(countsKey)
		if !ok {
			return 0, 0, false
		}
		raw = val
	}

	var mentees, surveys int64
	if _, err := fmt.Sscanf(raw, "%d|%d", &mentees, &surveys); err != nil {
		return 0, 0, false
	}
	return mentees, surveys, true
}

// SetCounts stores the totals in both tiers, best effort
func (c *CountsCache) SetCounts(ctx context.Context, mentees, surveys int64) {
	raw := fmt.Sprintf("%d|%d", mentees, surveys)
	if c.redis != nil {
		if err := c.redis.Set(ctx, countsKey, raw, c.ttl).Err(); err != nil {
			c.logger.Debug("redis counts write failed", zap.Error(err))
		}
	}
	c.memory.Set(countsKey, raw, c.ttl)
}
