// Package cache provides the key-value stores behind cache-aside lookups:
// Redis when configured, with an in-process fallback.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value cache with per-entry expiry
type Store interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the keys, ignoring missing ones
	Delete(ctx context.Context, keys ...string) error
	// Close releases resources held by the store
	Close() error
}
