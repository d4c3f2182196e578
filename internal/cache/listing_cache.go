package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisListingCache stores listing detail JSON under listing:<id>.
type RedisListingCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisListingCache creates a cache with the given TTL.
func NewRedisListingCache(client redis.Cmdable, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and returns a connected client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Key returns the cache key for a listing.
func Key(id uuid.UUID) string {
	return "listing:" + id.String()
}

// Get decodes the cached value into dst. It reports false on a miss.
func (c *RedisListingCache) Get(ctx context.Context, id uuid.UUID, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", Key(id), err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", Key(id), err)
	}
	return true, nil
}

// Set stores v with the configured TTL.
func (c *RedisListingCache) Set(ctx context.Context, id uuid.UUID, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", Key(id), err)
	}
	if err := c.client.Set(ctx, Key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", Key(id), err)
	}
	return nil
}

// Delete evicts a listing.
func (c *RedisListingCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", Key(id), err)
	}
	return nil
}

// NoopListingCache is used when no Redis URL is configured.
type NoopListingCache struct{}

func (NoopListingCache) Get(context.Context, uuid.UUID, any) (bool, error) { return false, nil }
func (NoopListingCache) Set(context.Context, uuid.UUID, any) error         { return nil }
func (NoopListingCache) Delete(context.Context, uuid.UUID) error           { return nil }
