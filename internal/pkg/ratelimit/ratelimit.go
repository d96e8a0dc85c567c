// Package ratelimit provides request rate limiting backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result reports a limiter decision.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Wait is the number of whole seconds until the window resets.
	// It is zero when Allowed is true.
	Wait int
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// FixedWindow implements Limiter using a fixed-window counter in Redis.
// The first request in a window creates the counter with the window TTL;
// requests beyond the limit are rejected until the counter expires.
type FixedWindow struct {
	client *redis.Client
	prefix string
}

// NewFixedWindow creates a Redis-backed fixed-window limiter.
func NewFixedWindow(client *redis.Client) *FixedWindow {
	return &FixedWindow{
		client: client,
		prefix: "ratelimit:",
	}
}

// Allow increments the counter for key and checks it against limit.
// Redis errors are returned as-is; callers decide whether to fail open.
func (f *FixedWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	fk := f.prefix + key

	count, err := f.client.Incr(ctx, fk).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: incr %q: %w", fk, err)
	}

	if count == 1 {
		if err := f.client.Expire(ctx, fk, window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit: expire %q: %w", fk, err)
		}
	}

	if count <= int64(limit) {
		return Result{Allowed: true}, nil
	}

	ttl, err := f.client.TTL(ctx, fk).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: ttl %q: %w", fk, err)
	}
	if ttl < 0 {
		// Counter without expiry, e.g. Expire failed on a previous request.
		// Reset the TTL so the key cannot block the client forever.
		if err := f.client.Expire(ctx, fk, window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit: expire %q: %w", fk, err)
		}
		ttl = window
	}

	return Result{Wait: int(math.Ceil(ttl.Seconds()))}, nil
}
