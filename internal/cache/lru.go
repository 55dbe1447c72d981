// Package cache holds the bounded memo caches used by the engine to avoid
// recomputing bounds, decimations and ticks across frames. Caches are not
// safe for concurrent use; each engine owns its own.
package cache

import (
	"container/list"
	"fmt"
)

// Stats counts cache traffic since creation or the last ResetStats.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations,omitempty"`
}

// HitRate returns hits / (hits + misses), or 0 with no traffic.
func (s Stats) HitRate() float64 {
	if total := s.Hits + s.Misses; total > 0 {
		return float64(s.Hits) / float64(total)
	}
	return 0
}

// Option configures an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithOnEvict registers a callback run whenever an entry leaves the cache,
// whether by capacity eviction, Remove or Clear.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *LRU[K, V]) { c.onEvict = fn }
}

// LRU is a bounded cache that evicts the least recently used entry inside
// the Put that overflows it.
type LRU[K comparable, V any] struct {
	maxSize int
	ll      *list.List
	items   map[K]*list.Element
	onEvict func(K, V)
	stats   Stats
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding at most maxSize entries. A maxSize below 1
// means unbounded.
func NewLRU[K comparable, V any](maxSize int, opts ...Option[K, V]) *LRU[K, V] {
	c := &LRU[K, V]{
		maxSize: maxSize,
		ll:      list.New(),
		items:   make(map[K]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.stats.Hits++
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry[K, V]).value, true
	}
	c.stats.Misses++
	var zero V
	return zero, false
}

// Peek returns the value for key without touching recency or stats.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached without touching recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Put stores value under key as the most recently used entry.
func (c *LRU[K, V]) Put(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&lruEntry[K, V]{key: key, value: value})
	if c.maxSize > 0 && c.ll.Len() > c.maxSize {
		c.stats.Evictions++
		c.removeElement(c.ll.Back())
	}
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss.
func (c *LRU[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Put(key, v)
	return v
}

// Remove drops key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear drops every entry. Stats are kept.
func (c *LRU[K, V]) Clear() {
	for el := c.ll.Back(); el != nil; el = c.ll.Back() {
		c.removeElement(el)
	}
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	c.ll.Remove(el)
	e := el.Value.(*lruEntry[K, V])
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}

// Keys returns the cached keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

func (c *LRU[K, V]) Len() int {
	return c.ll.Len()
}

func (c *LRU[K, V]) MaxSize() int {
	return c.maxSize
}

func (c *LRU[K, V]) Stats() Stats {
	return c.stats
}

func (c *LRU[K, V]) ResetStats() {
	c.stats = Stats{}
}

func (c *LRU[K, V]) String() string {
	return fmt.Sprintf("LRU[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		c.Len(), c.maxSize, c.stats.Hits, c.stats.Misses, c.stats.HitRate()*100, c.stats.Evictions)
}
