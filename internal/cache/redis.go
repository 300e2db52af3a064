package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akulinich/gazzeta/internal/apperrors"
)

// RedisCache implements Cache on top of a shared redis instance.
// Values are stored as JSON, so they must be representable in JSON.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrMiss
	case err != nil:
		return fmt.Errorf("%w: %v", apperrors.ErrCacheUnavailable, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Stored value does not decode into dest, treat as miss
		return ErrMiss
	}

	return nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error while marshaling cache value. Err: %w", err)
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCacheUnavailable, err)
	}

	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCacheUnavailable, err)
	}

	return nil
}
