package cache

import (
	"context"
	"errors"
	"time"

	"github.com/akulinich/gazzeta/internal/logger"
)

// TTLs chosen per read class: TTLAggregate for values driven by user activity
// (trending, dashboards, analytics, sidebar counts), TTLHomepage for reads
// that only move on editorial changes (category list, top posts per category)
const (
	TTLAggregate = 5 * time.Minute
	TTLHomepage  = time.Hour
)

// ReadThrough wraps a read query with the cache-aside policy: return the
// cached value on hit, otherwise compute the authoritative value and store it.
// Cache failures are logged and degrade to compute, they never fail the read.
func ReadThrough[T any](ctx context.Context, c Cache, l logger.Logger, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, ErrMiss):
		// fall through to compute
	default:
		l.Warn("cache read failed, using authoritative source", "key", key, "error", err.Error())
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		l.Warn("cache write failed", "key", key, "error", err.Error())
	}

	return value, nil
}
