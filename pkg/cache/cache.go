// Package cache stores serialized search solutions and rendered graphs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for a
// shared server deployment and [NullCache] when caching is disabled. Keys are
// built by a [Keyer] from hashed request options so that identical requests
// map to the same entry regardless of which front end issued them.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes. Solutions are deterministic for a given input, so
// expiry only bounds disk and memory use.
const (
	TTLSolution = 7 * 24 * time.Hour
	TTLRender   = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// with ok == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (removed int, err error)
}
