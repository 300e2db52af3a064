package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Cache is a TTL key-value facade over a shared store.
// Implementations must return apperrors.ErrCacheUnavailable when the backing
// store is unreachable so callers can fall through to the authoritative source.
type Cache interface {
	// Get reads the value stored under key into dest
	// Returns ErrMiss if the key is absent or expired
	Get(ctx context.Context, key string, dest any) error

	// Set stores value under key with the given TTL, overwriting any entry
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Invalidate removes entries immediately, no-op for absent keys
	Invalidate(ctx context.Context, keys ...string) error
}

// Key builds a deterministic cache key from ordered parts.
// Parts are lower-cased and joined with ':'; read and invalidate call sites
// must use the same part ordering.
func Key(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(p)
	}
	return strings.Join(lowered, ":")
}
