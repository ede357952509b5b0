package model

import (
	"context"
	"time"
)

// Cache is a key/value store with per-key expiry.
//
// Get returns ErrCacheMiss for absent or expired keys. Transport failures are
// wrapped with ErrCacheUnavailable and say nothing about whether a write
// landed.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
