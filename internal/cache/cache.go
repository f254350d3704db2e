package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Remember returns the cached value under key or loads and stores it.
// A nil cache or a failing cache falls through to load.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if c != nil {
		if hit, err := c.GetJSON(ctx, key, &out); err == nil && hit {
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if c != nil {
		_ = c.SetJSON(ctx, key, out, ttl)
	}
	return out, nil
}
