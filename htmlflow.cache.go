package htmlflow

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// Render cache defaults
const (
	DefaultCacheTTL           = 5 * time.Minute
	DefaultCacheMaxEntries    = 1000
	DefaultCacheMaxResultSize = 1 << 20 // 1MB

	cacheKeySeparator  = ":"
	cacheHashNil       = "nil"
	cacheEncodingEmpty = "{}"
	cacheEncodingNull  = "null"
)

// RenderCache caches rendered pages by view name and model. Models are
// keyed by the hash of their JSON encoding, so only models whose JSON form
// determines the output should be rendered through a cache.
type RenderCache struct {
	mu        sync.RWMutex
	entries   map[string]*renderCacheEntry
	config    RenderCacheConfig
	stats     RenderCacheStats
	evictList []string // FIFO eviction order
}

type renderCacheEntry struct {
	html      string
	expiresAt time.Time
}

// RenderCacheConfig configures a RenderCache.
type RenderCacheConfig struct {
	// TTL is how long output is cached. Default: 5 minutes.
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries is the maximum number of cached pages. Default: 1000.
	MaxEntries int `yaml:"max_entries"`

	// MaxResultSize is the largest page cached, in bytes. Default: 1MB.
	MaxResultSize int `yaml:"max_result_size"`
}

// RenderCacheStats tracks cache performance.
type RenderCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// DefaultRenderCacheConfig returns the default cache configuration.
func DefaultRenderCacheConfig() RenderCacheConfig {
	return RenderCacheConfig{
		TTL:           DefaultCacheTTL,
		MaxEntries:    DefaultCacheMaxEntries,
		MaxResultSize: DefaultCacheMaxResultSize,
	}
}

// Validate rejects negative limits.
func (c RenderCacheConfig) Validate() error {
	if c.TTL < 0 || c.MaxEntries < 0 || c.MaxResultSize < 0 {
		return NewInvalidConfigError(ErrMsgInvalidCache, OpLoadConfig)
	}
	return nil
}

// NewRenderCache creates a render cache. Zero fields take their defaults.
func NewRenderCache(config RenderCacheConfig) *RenderCache {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.MaxResultSize == 0 {
		config.MaxResultSize = DefaultCacheMaxResultSize
	}
	return &RenderCache{
		entries:   make(map[string]*renderCacheEntry),
		config:    config,
		evictList: make([]string, 0, config.MaxEntries),
	}
}

// Get returns the cached output of view for model, if present and fresh.
func (c *RenderCache) Get(view string, model any) (string, bool) {
	key, cacheable := makeCacheKey(view, model)
	if !cacheable {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.remove(key, entry)
		c.stats.Misses++
		return "", false
	}
	c.stats.Hits++
	return entry.html, true
}

// Set stores the output of view for model. Output larger than
// MaxResultSize is not cached.
func (c *RenderCache) Set(view string, model any, html string) {
	if len(html) > c.config.MaxResultSize {
		return
	}
	key, cacheable := makeCacheKey(view, model)
	if !cacheable {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.stats.TotalSize += int64(len(html) - len(old.html))
		old.html = html
		old.expiresAt = time.Now().Add(c.config.TTL)
		return
	}
	for len(c.entries) >= c.config.MaxEntries && len(c.evictList) > 0 {
		c.evictOldest()
	}
	c.entries[key] = &renderCacheEntry{
		html:      html,
		expiresAt: time.Now().Add(c.config.TTL),
	}
	c.evictList = append(c.evictList, key)
	c.stats.TotalSize += int64(len(html))
	c.stats.EntryCount = len(c.entries)
}

// InvalidateView removes every cached page of view.
func (c *RenderCache) InvalidateView(view string) {
	prefix := view + cacheKeySeparator

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.remove(key, entry)
		}
	}
}

// Clear removes all entries.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*renderCacheEntry)
	c.evictList = make([]string, 0, c.config.MaxEntries)
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// Cleanup removes expired entries and returns how many were removed.
func (c *RenderCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			c.remove(key, entry)
			removed++
		}
	}
	return removed
}

// Stats returns the current statistics.
func (c *RenderCache) Stats() RenderCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the hit rate between 0 and 1.
func (c *RenderCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// remove deletes an entry. The caller holds the lock.
func (c *RenderCache) remove(key string, entry *renderCacheEntry) {
	c.stats.TotalSize -= int64(len(entry.html))
	delete(c.entries, key)
	c.stats.EntryCount = len(c.entries)
	if i := slices.Index(c.evictList, key); i >= 0 {
		c.evictList = slices.Delete(c.evictList, i, i+1)
	}
}

func (c *RenderCache) evictOldest() {
	key := c.evictList[0]
	if entry, ok := c.entries[key]; ok {
		c.remove(key, entry)
		c.stats.Evictions++
		return
	}
	c.evictList = c.evictList[1:]
}

// makeCacheKey reports false for models that cannot be encoded and for
// models whose encoding carries no state, such as structs with only
// unexported fields.
func makeCacheKey(view string, model any) (string, bool) {
	if _, ok := model.(NoModel); ok || model == nil {
		return view + cacheKeySeparator + cacheHashNil, true
	}
	data, err := json.Marshal(model)
	if err != nil {
		return "", false
	}
	if s := string(data); s == cacheEncodingEmpty || s == cacheEncodingNull {
		return "", false
	}
	sum := sha256.Sum256(data)
	return view + cacheKeySeparator + hex.EncodeToString(sum[:8]), true
}
