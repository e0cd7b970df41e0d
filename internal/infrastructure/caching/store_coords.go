// Package caching provides in-memory TTL caches used by the search path.
package caching

import (
	"sync"
	"time"
)

// CachedCoords is one cached geocode resolution. Negative results (store has
// no resolvable coordinates) are cached too, so a broken link is not
// re-resolved on every search.
type CachedCoords struct {
	Lat      float64
	Lng      float64
	Resolved bool
	cachedAt time.Time
}

// StoreCoordsCache is a cache-aside layer in front of link geocoding, keyed
// by store id. Entries expire after the configured TTL and are invalidated
// explicitly when a store's location link changes.
type StoreCoordsCache struct {
	mu      sync.RWMutex
	entries map[string]CachedCoords
	ttl     time.Duration
}

// NewStoreCoordsCache creates a cache with the given entry TTL.
func NewStoreCoordsCache(ttl time.Duration) *StoreCoordsCache {
	return &StoreCoordsCache{
		entries: make(map[string]CachedCoords),
		ttl:     ttl,
	}
}

// Get returns the cached entry for a store id, if present and fresh.
func (c *StoreCoordsCache) Get(storeID string) (CachedCoords, bool) {
	c.mu.RLock()
	entry, ok := c.entries[storeID]
	c.mu.RUnlock()

	if !ok {
		return CachedCoords{}, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		c.Invalidate(storeID)
		return CachedCoords{}, false
	}
	return entry, true
}

// SetResolved caches a successful resolution.
func (c *StoreCoordsCache) SetResolved(storeID string, lat, lng float64) {
	c.mu.Lock()
	c.entries[storeID] = CachedCoords{Lat: lat, Lng: lng, Resolved: true, cachedAt: time.Now()}
	c.mu.Unlock()
}

// SetUnresolved caches a failed resolution.
func (c *StoreCoordsCache) SetUnresolved(storeID string) {
	c.mu.Lock()
	c.entries[storeID] = CachedCoords{cachedAt: time.Now()}
	c.mu.Unlock()
}

// Invalidate removes a store's entry. Called whenever the store's location
// link is updated.
func (c *StoreCoordsCache) Invalidate(storeID string) {
	c.mu.Lock()
	delete(c.entries, storeID)
	c.mu.Unlock()
}

// Len reports the number of cached entries, fresh or stale.
func (c *StoreCoordsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
