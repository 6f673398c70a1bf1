// Package cache provides a small in-memory TTL cache with explicit
// invalidation, used for feed read models.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a TTL cache keyed by deterministic composite keys.
// Entries expire after the configured TTL but can be invalidated
// explicitly before that, which callers must do when the inputs that
// produced a cached value change.
type Cache[T any] struct {
	entries map[string]entry[T]
	ttl     time.Duration
	mu      sync.Mutex
}

// New creates a cache whose entries live for ttl.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate removes the entry for key. Removing a missing key is a no-op.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *Cache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FeedKey builds the deterministic cache key for a viewer's feed:
// the viewer ID plus their sorted follow set. Any change to the follow
// set therefore produces a different key, and follow mutations
// invalidate by viewer prefix.
func FeedKey(viewerID string, followingIDs []string) string {
	sorted := make([]string, len(followingIDs))
	copy(sorted, followingIDs)
	sort.Strings(sorted)

	return FeedKeyPrefix(viewerID) + strings.Join(sorted, ":")
}

// FeedKeyPrefix is the invalidation prefix covering every cached feed
// for one viewer.
func FeedKeyPrefix(viewerID string) string {
	return "feed:" + viewerID + ":"
}
