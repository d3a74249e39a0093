// Package cache provides a small TTL memory cache used by the GitHub client
// to avoid repeated metadata lookups. It is a passive collaborator: analysis
// correctness never depends on a hit.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the fallback entry lifetime.
const DefaultTTL = 5 * time.Minute

// cleanupInterval controls how often expired entries are purged.
const cleanupInterval = 10 * time.Minute

// Cache is a TTL key-value store safe for concurrent use.
type Cache struct {
	inner      *gocache.Cache
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL; non-positive means
// DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		inner:      gocache.New(defaultTTL, cleanupInterval),
		defaultTTL: defaultTTL,
	}
}

// Set stores a value under key for ttl; non-positive ttl uses the default.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.inner.Set(key, value, ttl)
}

// Get returns the value for key and whether it was present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.inner.Delete(key)
}

// Flush drops all entries.
func (c *Cache) Flush() {
	c.inner.Flush()
}

// Len reports the number of live entries, expired ones included until the
// next cleanup pass.
func (c *Cache) Len() int {
	return c.inner.ItemCount()
}
