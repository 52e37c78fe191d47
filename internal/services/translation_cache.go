package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/storekit/translations-backend/internal/metrics"
	"github.com/storekit/translations-backend/internal/models"
)

const (
	// DefaultCacheTTL is how long a resolved translation stays cached.
	DefaultCacheTTL = time.Hour

	// cacheKeyPrefix namespaces translation entries so Clear never touches
	// unrelated keys if the cache backend is ever shared.
	cacheKeyPrefix = "translation:"

	// sweepInterval is how often the background sweeper evicts expired entries.
	sweepInterval = 5 * time.Minute

	// statsKeySample caps the number of key names returned by Stats.
	statsKeySample = 100
)

// CacheStats is the observability snapshot returned by the stats endpoint.
type CacheStats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// TranslationCache is the TTL cache the resolver reads through. The backing
// implementation is swappable (in-process map, external TTL store) without
// the resolver caring. Implementations must never propagate backend errors:
// a broken cache degrades to a miss.
type TranslationCache interface {
	Get(keyHash, languageCode string) (string, bool)
	Set(keyHash, languageCode, value string, ttl time.Duration)
	Insert(entry *models.LanguageValue)
	Remove(entry *models.LanguageValue)
	Clear(languageCode string) int
	Stats() CacheStats
	WarmUp(languageCode string, entries []models.LanguageValue) int
}

type cacheEntry struct {
	value  string
	expiry time.Time
}

// MemoryCache is the in-process TranslationCache: a mutex-guarded map with
// per-entry expiry, lazy eviction on read, and a periodic background sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is swappable for tests
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache with the given default TTL
// (DefaultCacheTTL if ttl <= 0).
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(languageCode, keyHash string) string {
	return cacheKeyPrefix + languageCode + ":" + keyHash
}

// Get returns the cached value, treating expired entries as absent and
// evicting them on the spot.
func (c *MemoryCache) Get(keyHash, languageCode string) (string, bool) {
	key := cacheKey(languageCode, keyHash)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.TranslationCacheMisses.Inc()
		return "", false
	}

	if !entry.expiry.After(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock: a Set may have raced the eviction.
		if cur, ok := c.entries[key]; ok && !cur.expiry.After(c.now()) {
			delete(c.entries, key)
			metrics.CacheEvictionsTotal.WithLabelValues("expired").Inc()
		}
		size := len(c.entries)
		c.mu.Unlock()

		metrics.TranslationCacheMisses.Inc()
		metrics.TranslationCacheSize.Set(float64(size))
		debugLog("Cache entry expired: %s", key)
		return "", false
	}

	metrics.TranslationCacheHits.Inc()
	return entry.value, true
}

// Set stores a value with the given TTL (the cache default if ttl <= 0).
func (c *MemoryCache) Set(keyHash, languageCode, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.entries[cacheKey(languageCode, keyHash)] = cacheEntry{
		value:  value,
		expiry: c.now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.TranslationCacheSize.Set(float64(size))
}

// Insert caches an entry keyed by its own language and hash. Entries with
// missing fields are skipped.
func (c *MemoryCache) Insert(entry *models.LanguageValue) {
	if entry == nil || entry.LanguageCode == "" || entry.KeyHash == "" || entry.DestinationValue == "" {
		return
	}
	c.Set(entry.KeyHash, entry.LanguageCode, entry.DestinationValue, 0)
}

// Remove evicts the cache entry for a LanguageValue.
func (c *MemoryCache) Remove(entry *models.LanguageValue) {
	if entry == nil || entry.LanguageCode == "" || entry.KeyHash == "" {
		return
	}

	c.mu.Lock()
	delete(c.entries, cacheKey(entry.LanguageCode, entry.KeyHash))
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheEvictionsTotal.WithLabelValues("removed").Inc()
	metrics.TranslationCacheSize.Set(float64(size))
}

// Clear evicts all entries for one language, or every translation entry when
// languageCode is empty. Returns the number of entries removed.
func (c *MemoryCache) Clear(languageCode string) int {
	prefix := cacheKeyPrefix
	if languageCode != "" {
		prefix = cacheKey(languageCode, "")
	}

	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheEvictionsTotal.WithLabelValues("cleared").Add(float64(removed))
	metrics.TranslationCacheSize.Set(float64(size))
	infoLog("Cache cleared: language=%q removed=%d", languageCode, removed)
	return removed
}

// Stats returns the live entry count and a sample of up to 100 key names.
// Expired-but-unswept entries are excluded from the count.
func (c *MemoryCache) Stats() CacheStats {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{Keys: make([]string, 0, statsKeySample)}
	for key, entry := range c.entries {
		if !entry.expiry.After(now) {
			continue
		}
		stats.Size++
		if len(stats.Keys) < statsKeySample {
			stats.Keys = append(stats.Keys, key)
		}
	}
	return stats
}

// WarmUp bulk-populates entries for a language in one pass under a single
// lock acquisition. Entries with missing fields are skipped. Returns the
// number of entries cached.
func (c *MemoryCache) WarmUp(languageCode string, entries []models.LanguageValue) int {
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	loaded := 0
	for i := range entries {
		e := &entries[i]
		if e.KeyHash == "" || e.DestinationValue == "" {
			continue
		}
		c.entries[cacheKey(languageCode, e.KeyHash)] = cacheEntry{
			value:  e.DestinationValue,
			expiry: expiry,
		}
		loaded++
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.TranslationCacheSize.Set(float64(size))
	infoLog("Cache warmed up: language=%s entries=%d", languageCode, loaded)
	return loaded
}

// StartSweeper runs the periodic expiry sweep until ctx is cancelled.
// Run it in its own goroutine from main.
func (c *MemoryCache) StartSweeper(ctx context.Context) {
	log.Printf("Cache sweeper started: interval=%s ttl=%s", sweepInterval, c.ttl)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache sweeper stopping...")
			return
		case <-ticker.C:
			if removed := c.sweepExpired(); removed > 0 {
				debugLog("Sweep evicted %d expired entries", removed)
			}
		}
	}
}

func (c *MemoryCache) sweepExpired() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if !entry.expiry.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues("expired").Add(float64(removed))
	}
	metrics.TranslationCacheSize.Set(float64(size))
	return removed
}
