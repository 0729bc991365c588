package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"mortality-valuation/internal/model"
)

// CacheEntry is a parsed life table with its expiry.
type CacheEntry struct {
	Table     *model.LifeTable
	ExpiresAt time.Time
}

// Cache keeps parsed life tables so repeated API requests against the same
// file do not rescan it. A nil *Cache is valid and never hits.
type Cache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewCache returns a cache with the given entry lifetime. ttl <= 0 disables it.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	return &Cache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached table if present and not expired.
func (c *Cache) Get(key string) (*model.LifeTable, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Table, true
}

// Set stores a table.
func (c *Cache) Set(key string, t *model.LifeTable) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &CacheEntry{Table: t, ExpiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
}

// Evict drops expired entries and returns how many were removed.
func (c *Cache) Evict() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, e := range c.store {
		if now.After(e.ExpiresAt) {
			delete(c.store, k)
			n++
		}
	}
	return n
}

// Run evicts expired entries periodically until ctx is done.
func (c *Cache) Run(ctx context.Context, every time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Evict()
		}
	}
}

// CacheKey derives a deterministic key from the file and filter.
func CacheKey(path string, f Filter) string {
	years := append([]int(nil), f.Years...)
	sort.Ints(years)
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%v", path, f.Country, years)))
	return hex.EncodeToString(hash[:])
}

// Loader loads life tables through an optional cache.
type Loader struct {
	Cache *Cache
}

// Load returns the filtered life table from path, reusing a cached parse.
func (l *Loader) Load(path string, f Filter) (*model.LifeTable, error) {
	var c *Cache
	if l != nil {
		c = l.Cache
	}
	key := CacheKey(path, f)
	if t, ok := c.Get(key); ok {
		return t, nil
	}
	t, err := LoadLifeTableCSV(path, f)
	if err != nil {
		return nil, err
	}
	c.Set(key, t)
	return t, nil
}
