// Package redis implements the TTL cache on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/codeauth-server/internal/model"
)

var _ model.Cache = (*Cache)(nil)

// Cache implements model.Cache with a shared go-redis client pool.
type Cache struct {
	client goredis.UniversalClient
}

// NewCache wraps an existing client.
func NewCache(client goredis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// NewCacheFromURL parses a redis:// URL and connects, failing fast when the
// server is unreachable.
func NewCacheFromURL(ctx context.Context, url string) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	c := NewCache(goredis.NewClient(opts))
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", model.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", model.ErrCacheUnavailable, key, err)
	}
	return val, nil
}

// Set stores value under key. ttl is rounded up to whole seconds; zero means
// no expiry.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("negative ttl %s for key %s", ttl, key)
	}
	if err := c.client.Set(ctx, key, value, wholeSeconds(ttl)).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", model.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Delete removes key and reports whether it existed.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %v", model.ErrCacheUnavailable, key, err)
	}
	return n > 0, nil
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", model.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the client pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func wholeSeconds(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	secs := (ttl + time.Second - 1) / time.Second
	return secs * time.Second
}
