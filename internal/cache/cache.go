// Package cache is a JSON read-through cache over Redis for read-mostly
// reference data. A nil *Cache passes every read straight to the loader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, prefix: "levy:cache:"}
}

// Fetch returns the cached value for key, or calls load and stores its result.
// Redis failures degrade to a direct load.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}

		slog.Warn("discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}

	if err := c.client.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}

	return v, nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}

	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}

	return nil
}
