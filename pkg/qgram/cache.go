package qgram

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies one decomposition. Strings are immutable once
// decomposed, so entries are never invalidated, only evicted.
type cacheKey struct {
	q      int
	padded bool
	s      string
}

// profileCache stores computed frequency maps. Cached maps are shared between
// callers and must never be mutated after insertion.
type profileCache interface {
	get(k cacheKey) (map[string]int, bool)
	add(k cacheKey, p map[string]int)
	purge()
}

// nopCache recomputes every decomposition.
type nopCache struct{}

func (nopCache) get(cacheKey) (map[string]int, bool) { return nil, false }
func (nopCache) add(cacheKey, map[string]int)        {}
func (nopCache) purge()                              {}

// mapCache is the default unbounded cache. The mutex makes a single Engine
// safe to share across goroutines.
type mapCache struct {
	mu      sync.Mutex
	entries map[cacheKey]map[string]int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[cacheKey]map[string]int)}
}

func (c *mapCache) get(k cacheKey) (map[string]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[k]
	return p, ok
}

func (c *mapCache) add(k cacheKey, p map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = p
}

func (c *mapCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]map[string]int)
}

// lruCache bounds memory for callers that decompose an open-ended stream of
// distinct strings. golang-lru is internally synchronized.
type lruCache struct {
	entries *lru.Cache[cacheKey, map[string]int]
}

func newLRUCache(size int) *lruCache {
	c, err := lru.New[cacheKey, map[string]int](size)
	if err != nil {
		// Only reachable with size < 1, which the option layer rejects.
		panic(err)
	}
	return &lruCache{entries: c}
}

func (c *lruCache) get(k cacheKey) (map[string]int, bool) { return c.entries.Get(k) }
func (c *lruCache) add(k cacheKey, p map[string]int)      { c.entries.Add(k, p) }
func (c *lruCache) purge()                                { c.entries.Purge() }
