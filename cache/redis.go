package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed cache over an existing client.
// The caller owns the client and its lifecycle.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Get retrieves a cached value. Returns (nil, false) on miss or on any
// backend error; per the Cache contract, reads never fail loudly.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL. TTL=0 means no caching.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a cached value. Idempotent - no error on miss.
func (c *Redis) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Ping checks if the Redis server is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Ensure Redis implements Cache and Pinger
var (
	_ Cache  = (*Redis)(nil)
	_ Pinger = (*Redis)(nil)
)
