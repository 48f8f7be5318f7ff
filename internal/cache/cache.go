// Package cache provides a small time-expiring key-value store used to avoid
// redundant chat API lookups. Expiry is enforced by a periodic purge rather
// than per-access checks: cached records are chat messages, which are
// immutable once sent, so returning a slightly stale entry is harmless.
package cache

import (
	"sync"
	"time"

	"github.com/xaenox/thread-tracker/internal/platform"
)

// MessageCache stores fetched chat messages keyed by channel and message ID.
type MessageCache = Cache[platform.ChannelMessage, *platform.Message]

type entry[V any] struct {
	value V
	added time.Time
}

func (e entry[V]) expired(lifetime time.Duration, now time.Time) bool {
	return now.Sub(e.added) > lifetime
}

// Cache is a thread-safe map with entry lifetimes. Readers proceed
// concurrently; writers take exclusive access.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	lifetime time.Duration
	entries  map[K]entry[V]
}

func New[K comparable, V any](lifetime time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lifetime: lifetime,
		entries:  make(map[K]entry[V]),
	}
}

// Get returns the cached value for the key, if any.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e.value, ok
}

// Contains reports whether the cache holds an entry for the key.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[key]
	return ok
}

// Store inserts the value, overwriting any existing entry for the key, and
// returns the stored value.
func (c *Cache[K, V]) Store(key K, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, added: time.Now()}
	return value
}

// Remove drops the entry for the key and returns it, if it was present.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}

	return e.value, ok
}

// GetOrElse returns the cached value for the key, or invokes compute, stores
// the result, and returns it. A compute error is passed through unchanged
// and nothing is stored.
//
// Concurrent misses on the same key are not de-duplicated: both callers may
// invoke compute, and the last writer's result wins. Records are immutable
// chat messages, so the duplicate fetch is wasteful but never wrong.
func (c *Cache[K, V]) GetOrElse(key K, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	return c.Store(key, value), nil
}

// PurgeExpired removes all entries older than the cache lifetime. Intended
// to run on its own timer.
func (c *Cache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if e.expired(c.lifetime, now) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
