package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/internal/domain/repositories"
)

var _ repositories.PayloadCache = (*RedisCache)(nil)

// RedisCache stores JSON payloads in Redis under a key prefix. Redis errors
// degrade to misses so callers fall back to the backend.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisCache wraps an existing client. A nil client yields a cache that
// always misses.
func NewRedisCache(client *redis.Client, prefix string, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

// Get decodes the cached value into dst
func (c *RedisCache) Get(ctx context.Context, key string, dst any) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache.redis.get_failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// unreadable entries are dropped so the next fill replaces them
		_ = c.client.Del(ctx, c.key(key)).Err()
		return false
	}
	return true
}

// Set stores value for ttl. A non-positive ttl is a no-op.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache.redis.encode_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		c.logger.Warn("cache.redis.set_failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete evicts keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = c.key(key)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("cache.redis.delete_failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Ping checks connectivity, used by the readiness check
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return errors.New("redis client not configured")
	}
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
