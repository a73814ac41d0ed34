// Package cache holds in-memory caches in front of the database
package cache

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-while/go-words/internal/models"
)

const (
	DefaultCatalogCacheEntries = 1024
	DefaultCatalogCacheMaxAge  = 5 * time.Minute
)

// CachedCatalogs holds one cached catalog listing
type CachedCatalogs struct {
	Catalogs  []*models.Catalog
	CreatedAt time.Time
	LastUsed  time.Time
	Size      int64 // Estimated memory size
}

// CatalogCache caches catalog listings per filter. Any write to catalogs,
// languages or users must call Clear, listings join all three.
//
// A listing read from the database is stored with SetIfGeneration and the
// generation taken before the read, so a Clear that happens in between
// drops the listing instead of caching a pre-write snapshot.
type CatalogCache struct {
	cache       map[string]*CachedCatalogs
	mutex       sync.RWMutex
	generation  uint64 // bumped by every Clear; guarded by mutex
	maxEntries  int           // Maximum number of cached listings
	maxAge      time.Duration // Maximum age of entries
	cleanupTick time.Duration // How often to run cleanup
	stopCleanup chan struct{}
	stopOnce    sync.Once
	cachedSize  int64        // Size of the cache in bytes
	countermux  sync.RWMutex // Mutex for counters
	hits        int64
	misses      int64
}

// NewCatalogCache creates a cache and starts its cleanup goroutine; call Stop when done
func NewCatalogCache(maxEntries int, maxAge time.Duration) *CatalogCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCatalogCacheEntries
	}
	if maxAge <= 0 {
		maxAge = DefaultCatalogCacheMaxAge
	}
	cc := &CatalogCache{
		cache:       make(map[string]*CachedCatalogs),
		maxEntries:  maxEntries,
		maxAge:      maxAge,
		cleanupTick: maxAge,
		stopCleanup: make(chan struct{}),
	}
	go cc.cleanup()
	return cc
}

func (cc *CatalogCache) generateKey(filter models.CatalogFilter) string {
	return fmt.Sprintf("catalogs_l%d_u%d", filter.LanguageID, filter.UserID)
}

// Get returns the cached listing for filter
func (cc *CatalogCache) Get(filter models.CatalogFilter) ([]*models.Catalog, bool) {
	key := cc.generateKey(filter)

	cc.mutex.Lock()
	entry, exists := cc.cache[key]
	if exists && time.Since(entry.CreatedAt) > cc.maxAge {
		cc.removeLocked(key)
		exists = false
	}
	if exists {
		entry.LastUsed = time.Now()
	}
	cc.mutex.Unlock()

	cc.countermux.Lock()
	if exists {
		cc.hits++
	} else {
		cc.misses++
	}
	cc.countermux.Unlock()

	if !exists {
		return nil, false
	}
	return entry.Catalogs, true
}

// Generation returns the current generation; take it before reading the listing from the database
func (cc *CatalogCache) Generation() uint64 {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	return cc.generation
}

// Set stores a listing for filter
func (cc *CatalogCache) Set(filter models.CatalogFilter, catalogs []*models.Catalog) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.setLocked(filter, catalogs)
}

// SetIfGeneration stores a listing only if no Clear happened since gen was taken.
// It reports whether the listing was stored.
func (cc *CatalogCache) SetIfGeneration(gen uint64, filter models.CatalogFilter, catalogs []*models.Catalog) bool {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	if cc.generation != gen {
		return false
	}
	cc.setLocked(filter, catalogs)
	return true
}

// setLocked stores a listing; caller holds cc.mutex
func (cc *CatalogCache) setLocked(filter models.CatalogFilter, catalogs []*models.Catalog) {
	key := cc.generateKey(filter)
	now := time.Now()
	entry := &CachedCatalogs{
		Catalogs:  catalogs,
		CreatedAt: now,
		LastUsed:  now,
		Size:      estimateSize(catalogs),
	}
	cc.removeLocked(key)
	cc.cache[key] = entry
	cc.updateCachedSize(entry.Size)
	cc.evictIfNeeded()
}

// Clear removes all entries
func (cc *CatalogCache) Clear() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.generation++
	if len(cc.cache) == 0 {
		return
	}
	cc.cache = make(map[string]*CachedCatalogs)
	cc.countermux.Lock()
	cc.cachedSize = 0
	cc.countermux.Unlock()
}

// Len returns the number of cached listings
func (cc *CatalogCache) Len() int {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	return len(cc.cache)
}

// GetStats returns cache statistics
func (cc *CatalogCache) GetStats() map[string]interface{} {
	entryCount := cc.Len()

	cc.countermux.RLock()
	hits, misses, size := cc.hits, cc.misses, cc.cachedSize
	cc.countermux.RUnlock()

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return map[string]interface{}{
		"entries":     entryCount,
		"max_entries": cc.maxEntries,
		"size_bytes":  size,
		"max_age":     cc.maxAge.String(),
		"hits":        hits,
		"misses":      misses,
		"hit_rate":    hitRate,
	}
}

// removeLocked drops key; caller holds cc.mutex
func (cc *CatalogCache) removeLocked(key string) {
	if entry, exists := cc.cache[key]; exists {
		cc.updateCachedSize(-entry.Size)
		delete(cc.cache, key)
	}
}

func (cc *CatalogCache) updateCachedSize(delta int64) {
	cc.countermux.Lock()
	cc.cachedSize += delta
	if cc.cachedSize < 0 {
		cc.cachedSize = 0
	}
	cc.countermux.Unlock()
}

// estimateSize calculates rough memory usage of a listing
func estimateSize(catalogs []*models.Catalog) int64 {
	size := int64(100 + len(catalogs)*160)
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		size += int64(len(c.Name))
		if c.Language != nil {
			size += int64(len(c.Language.Name))
		}
	}
	return size
}

// evictIfNeeded removes the least recently used entry when full; caller holds cc.mutex
func (cc *CatalogCache) evictIfNeeded() {
	if len(cc.cache) <= cc.maxEntries {
		return
	}
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range cc.cache {
		if oldestKey == "" || entry.LastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastUsed
		}
	}
	cc.removeLocked(oldestKey)
}

func (cc *CatalogCache) cleanup() {
	ticker := time.NewTicker(cc.cleanupTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cc.cleanupExpired()
		case <-cc.stopCleanup:
			return
		}
	}
}

func (cc *CatalogCache) cleanupExpired() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	removed := 0
	for key, entry := range cc.cache {
		if time.Since(entry.CreatedAt) > cc.maxAge {
			cc.removeLocked(key)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[CACHE]: CatalogCache cleaned up %d expired entries", removed)
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (cc *CatalogCache) Stop() {
	cc.stopOnce.Do(func() { close(cc.stopCleanup) })
}
