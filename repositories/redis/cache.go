package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewCache is a JSON-backed Redis cache for read-only views of type T
type ViewCache[T any] struct {
	client goredis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewViewCache creates a ViewCache. A zero ttl keeps keys forever.
func NewViewCache[T any](client goredis.Cmdable, ttl time.Duration, logger *zap.Logger) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl, logger: logger}
}

// Get returns (nil, false) on a miss, a Redis error or a bad payload
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &v, true
}

// Set stores value under key. Write failures are logged only.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
