// Package cache provides a concurrency-safe in-memory cache with time-based
// expiry and a bound on the number of entries.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

type entry[V any] struct {
	value    V
	storedAt time.Time
	seq      uint64
}

// TTL is a string-keyed cache whose entries expire after a fixed duration.
type TTL[V any] struct {
	mu sync.RWMutex

	data map[string]entry[V]
	seq  uint64

	// retention configuration
	ttl        time.Duration // <= 0 never expires
	maxEntries int           // <= 0 unlimited
	now        Clock
}

// New creates a TTL cache. A nil clock uses time.Now.
func New[V any](ttl time.Duration, maxEntries int, clock Clock) *TTL[V] {
	if clock == nil {
		clock = time.Now
	}
	return &TTL[V]{
		data:       make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        clock,
	}
}

// Get returns the live value stored under key.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || c.expired(e, c.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and enforces retention.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	c.data[key] = entry[V]{value: value, storedAt: now, seq: c.seq}

	c.prune(now)

	// Enforce retention by count, oldest insertion first.
	for c.maxEntries > 0 && len(c.data) > c.maxEntries {
		oldestKey := ""
		var oldest uint64
		for k, e := range c.data {
			if oldestKey == "" || e.seq < oldest {
				oldestKey, oldest = k, e.seq
			}
		}
		delete(c.data, oldestKey)
	}
}

// Delete removes key.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of live entries.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	n := 0
	for _, e := range c.data {
		if !c.expired(e, now) {
			n++
		}
	}
	return n
}

func (c *TTL[V]) prune(now time.Time) {
	for k, e := range c.data {
		if c.expired(e, now) {
			delete(c.data, k)
		}
	}
}

func (c *TTL[V]) expired(e entry[V], now time.Time) bool {
	return c.ttl > 0 && !now.Before(e.storedAt.Add(c.ttl))
}

// CoordKey formats coordinates to four decimal places, roughly 11 m.
func CoordKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
