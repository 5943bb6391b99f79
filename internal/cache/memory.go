package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/warisan/internal/model"
)

// MemoryCache memoizes allocations in process memory
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns a copy of the cached allocation for in
func (c *MemoryCache) Get(in model.Input) (model.Allocation, bool) {
	if val, found := c.cache.Get(Key(in)); found {
		if a, ok := val.(model.Allocation); ok {
			return a.Clone(), true
		}
	}
	return model.Allocation{}, false
}

// Set stores a copy of the allocation with the default TTL
func (c *MemoryCache) Set(in model.Input, result model.Allocation) {
	c.cache.Set(Key(in), result.Clone(), gocache.DefaultExpiration)
}

// Len returns the number of cached allocations, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Clear removes all cached allocations
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
