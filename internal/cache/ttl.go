package cache

import (
	"time"
)

// TTL is an LRU whose entries also expire a fixed duration after they were
// stored. Expired entries are dropped lazily on access or by Purge.
type TTL[K comparable, V any] struct {
	lru     *LRU[K, ttlEntry[V]]
	ttl     time.Duration
	now     func() time.Time
	hits    uint64
	misses  uint64
	expired uint64
}

type ttlEntry[V any] struct {
	value   V
	created time.Time
}

// NewTTL creates a cache of at most maxSize entries that live for ttl.
// A nil clock uses time.Now.
func NewTTL[K comparable, V any](maxSize int, ttl time.Duration, clock func() time.Time) *TTL[K, V] {
	if clock == nil {
		clock = time.Now
	}
	return &TTL[K, V]{
		lru: NewLRU[K, ttlEntry[V]](maxSize),
		ttl: ttl,
		now: clock,
	}
}

func (c *TTL[K, V]) expiredAt(e ttlEntry[V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.created) >= c.ttl
}

// Get returns the live value for key and marks it most recently used.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	e, ok := c.lru.Peek(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if c.expiredAt(e, c.now()) {
		c.lru.Remove(key)
		c.expired++
		c.misses++
		return zero, false
	}
	c.lru.Get(key)
	c.hits++
	return e.value, true
}

// Put stores value under key, restarting its lifetime.
func (c *TTL[K, V]) Put(key K, value V) {
	c.lru.Put(key, ttlEntry[V]{value: value, created: c.now()})
}

// GetOrCompute returns the live cached value or computes and stores it.
func (c *TTL[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Put(key, v)
	return v
}

func (c *TTL[K, V]) Remove(key K) bool {
	return c.lru.Remove(key)
}

// Purge drops every expired entry and returns how many were removed.
func (c *TTL[K, V]) Purge() int {
	now := c.now()
	removed := 0
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && c.expiredAt(e, now) {
			c.lru.Remove(k)
			removed++
		}
	}
	c.expired += uint64(removed)
	return removed
}

func (c *TTL[K, V]) Clear() {
	c.lru.Clear()
}

// Len counts stored entries, including expired ones not yet purged.
func (c *TTL[K, V]) Len() int {
	return c.lru.Len()
}

func (c *TTL[K, V]) Stats() Stats {
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.lru.Stats().Evictions,
		Expirations: c.expired,
	}
}
