package ratelimit

import (
	"fmt"
	"time"

	"context"

	"github.com/redis/go-redis/v9"
)

// Result of a single limiter check
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per identifier in fixed windows backed by redis.
// Windows reset wholesale when their TTL elapses; bursts across a window
// boundary are not smoothed.
type Limiter struct {
	rdb    *redis.Client
	name   string
	limit  int
	window time.Duration
}

// New creates a limiter bound to limit requests per window.
// name namespaces the counters so limiters with different purposes never
// share windows for the same identifier.
func New(rdb *redis.Client, name string, limit int, window time.Duration) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}

	return &Limiter{
		rdb:    rdb,
		name:   name,
		limit:  limit,
		window: window,
	}, nil
}

// Check counts one request for identifier in the current window.
// The increment uses the store's atomic INCR, never a local read-modify-write,
// so concurrent requests for one identifier are counted correctly across
// processes. The window TTL is armed whenever the counter has none: on the
// first hit of a window, and again if a previous EXPIRE was lost to a redis
// failure mid-check, so a counter can never survive its window.
// On redis failure the error is returned with Allowed=true; callers decide
// to fail open rather than reject traffic on limiter outage.
func (l *Limiter) Check(ctx context.Context, identifier string) (Result, error) {
	key := l.key(identifier)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return Result{Allowed: true, Remaining: l.limit}, fmt.Errorf("rate limiter unavailable: %w", err)
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil {
		return Result{Allowed: true, Remaining: l.limit}, fmt.Errorf("rate limiter unavailable: %w", err)
	}
	if ttl < 0 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return Result{Allowed: true, Remaining: l.limit}, fmt.Errorf("rate limiter unavailable: %w", err)
		}
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.limit),
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (l *Limiter) key(identifier string) string {
	return "ratelimit:" + l.name + ":" + identifier
}
