package openmeteo

import (
	"context"
	"strings"
	"sync"

	"github.com/levantkite/windforecast/internal/domain"
)

// seriesFetcher is the slice of Client the cache decorates.
type seriesFetcher interface {
	FetchSeries(ctx context.Context) ([]domain.SpotSeries, error)
	FetchModelRuns(ctx context.Context) []domain.ModelUpdate
}

// CachedClient wraps a Client with an in-memory LRU cache keyed by the
// upstream model run: while no model has published a new run, the cheap
// metadata check answers the refresh and the heavy payload requests are
// skipped. It implements pipeline.Fetcher.
type CachedClient struct {
	inner seriesFetcher
	cache *lruCache
}

// NewCachedClient creates a cache decorator around a forecast fetcher.
func NewCachedClient(inner seriesFetcher, maxEntries int) *CachedClient {
	return &CachedClient{inner: inner, cache: newLRUCache(maxEntries)}
}

func (c *CachedClient) FetchForecasts(ctx context.Context) (domain.Bundle, error) {
	runs := c.inner.FetchModelRuns(ctx)

	key := runKey(runs)
	if key != "" {
		if series, ok := c.cache.get(key); ok {
			return domain.Bundle{Series: series, ModelUpdates: runs}, nil
		}
	}

	series, err := c.inner.FetchSeries(ctx)
	if err != nil {
		return domain.Bundle{}, err
	}
	// Only cache under a fully known run key; an unknown run would pin a
	// stale payload with no way to notice the next publication.
	if key != "" {
		c.cache.put(key, series)
	}
	return domain.Bundle{Series: series, ModelUpdates: runs}, nil
}

// runKey combines every model's run timestamp into one cache key, or ""
// when any run is unknown.
func runKey(runs []domain.ModelUpdate) string {
	if len(runs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		if r.Run == "" {
			return ""
		}
		parts = append(parts, r.Model+"@"+r.Run)
	}
	return strings.Join(parts, "|")
}

// lruCache is a small thread-safe LRU for fetched spot series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []domain.SpotSeries
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.SpotSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.SpotSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
