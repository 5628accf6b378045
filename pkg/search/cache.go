package search

import (
	"sync"
	"time"
)

// countCache is a small TTL cache for expensive aggregate queries: total
// match counts and per-magazine facets. Entries expire lazily on read.
type countCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	counts  map[string]countEntry
	facets  map[string]facetEntry
	nowFunc func() time.Time
}

type countEntry struct {
	value   int
	expires time.Time
}

type facetEntry struct {
	value   []Facet
	expires time.Time
}

func newCountCache(ttl time.Duration) *countCache {
	return &countCache{
		ttl:     ttl,
		counts:  make(map[string]countEntry),
		facets:  make(map[string]facetEntry),
		nowFunc: time.Now,
	}
}

func (c *countCache) count(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.counts[key]
	if !ok || c.nowFunc().After(entry.expires) {
		delete(c.counts, key)
		return 0, false
	}
	return entry.value, true
}

func (c *countCache) setCount(key string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key] = countEntry{value: value, expires: c.nowFunc().Add(c.ttl)}
}

func (c *countCache) facetList(key string) ([]Facet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.facets[key]
	if !ok || c.nowFunc().After(entry.expires) {
		delete(c.facets, key)
		return nil, false
	}
	return entry.value, true
}

func (c *countCache) setFacetList(key string, value []Facet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facets[key] = facetEntry{value: value, expires: c.nowFunc().Add(c.ttl)}
}
