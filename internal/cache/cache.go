// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tablesense/internal/metrics"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache. Readers never observe a
// partially written entry; concurrent writers to the same key are
// last-writer-wins.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	name    string
	now     func() time.Time

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos

	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Entries     int       `json:"entries"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// Option customizes a Cache.
type Option func(*options)

type options struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCleanupInterval sets the sweep interval. Zero or negative disables
// the background sweep; expired entries are then only dropped on Get.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

// New creates a cache whose entries live for ttl. name labels the cache
// metrics. A background goroutine sweeps expired entries until Close.
//
// Example:
//
//	dashboards := cache.New[int, *Dashboard]("dashboard", 5*time.Minute)
//	defer dashboards.Close()
//	dashboards.Set(restaurantID, d)
//	if d, ok := dashboards.Get(restaurantID); ok {
//	    return d
//	}
func New[K comparable, V any](name string, ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now, cleanupInterval: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[K, V]{
		entries:         make(map[K]entry[V]),
		ttl:             ttl,
		name:            name,
		now:             o.now,
		cleanupInterval: o.cleanupInterval,
		stop:            make(chan struct{}),
	}
	c.lastCleanup.Store(c.now().UnixNano())

	if c.cleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

// TTL returns the default entry lifetime.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if present and not expired. An expired
// entry is removed and counted as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		c.recordMiss()
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check: another writer may have refreshed the entry.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		size := len(c.entries)
		c.mu.Unlock()
		c.recordMiss()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
		return zero, false
	}

	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Delete removes key. Deleting a missing key is a no-op.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Clear drops every entry and returns how many were removed.
func (c *Cache[K, V]) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[K]entry[V])
	c.mu.Unlock()

	c.evictions.Add(int64(n))
	metrics.CacheInvalidations.WithLabelValues(c.name).Inc()
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
	return n
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	s := Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Entries:     c.Len(),
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	}
	return s
}

// Close stops the background sweep. It is safe to call more than once.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[K, V]) cleanup() {
	now := c.now()
	c.mu.Lock()
	removed := int64(0)
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.evictions.Add(removed)
	c.lastCleanup.Store(now.UnixNano())
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

func (c *Cache[K, V]) recordMiss() {
	c.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}
