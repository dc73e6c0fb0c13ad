// Package cache provides the byte caches used by the analysis pipeline.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry below a directory; the CLI default
//   - [MemoryCache]: bounded in-process LRU with per-entry expiry; the server default
//   - [RedisCache]: shared cache for several server instances
//   - [BadgerCache]: embedded persistent key/value store
//   - [NullCache]: caching disabled
//
// All backends are safe for concurrent use.
//
// # Keys
//
// A [Keyer] derives cache keys for the pipeline stages: scanned models are
// keyed by source digest, analyses by model hash plus options, renders by
// analysis hash plus format. [ScopedKeyer] prefixes every key for isolation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLs per pipeline stage.
const (
	TTLScan     = 24 * time.Hour
	TTLAnalysis = 7 * 24 * time.Hour
	TTLRender   = 7 * 24 * time.Hour
)

// GetJSON decodes the value under key into v. It returns ErrCacheMiss when
// the key is absent or the stored value does not decode.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return fmt.Errorf("%w: decode %s: %v", ErrCacheMiss, key, err)
	}
	return nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
