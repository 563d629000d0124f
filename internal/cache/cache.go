// Package cache provides a small per-key TTL cache used to avoid re-fetching
// historical series from the quote provider on every request.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	expiresAt time.Time
	value     V
}

// TTL caches values per key for a fixed duration. A zero or negative TTL
// disables caching entirely: Get never hits and Set is a no-op.
type TTL[V any] struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]entry[V]
}

// New creates a TTL cache holding values of type V.
func New[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:   ttl,
		items: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry. Expired entries
// are pruned opportunistically on write.
func (c *TTL[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}

	c.items[key] = entry[V]{
		expiresAt: now.Add(c.ttl),
		value:     value,
	}
}
