package cache

import (
	"context"
	"time"
)

// Capped limits the lifetime of every entry written through it to max.
// Entries written without a TTL get max as their TTL.
type Capped struct {
	Cache
	max time.Duration
}

// WithMaxTTL wraps c so that no entry outlives max. A max <= 0 returns c
// unchanged.
func WithMaxTTL(c Cache, max time.Duration) Cache {
	if max <= 0 {
		return c
	}
	return &Capped{Cache: c, max: max}
}

// Set stores data with min(ttl, max) as its TTL.
func (c *Capped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.max {
		ttl = c.max
	}
	return c.Cache.Set(ctx, key, data, ttl)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *Capped) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

var (
	_ Cache   = (*Capped)(nil)
	_ Clearer = (*Capped)(nil)
)
