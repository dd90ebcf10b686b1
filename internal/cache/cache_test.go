// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(clock *fakeClock, ttl time.Duration) *Cache[string, int] {
	return New[string, int]("test", ttl, WithClock(clock.Now), WithCleanupInterval(0))
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(newFakeClock(), time.Minute)
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected miss for b")
	}
	if c.TTL() != time.Minute {
		t.Errorf("TTL = %v", c.TTL())
	}
}

func TestCacheExpiration(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, 5*time.Minute)
	defer c.Close()

	c.Set("a", 1)
	clock.Advance(5 * time.Minute)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry should still be valid exactly at its TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", c.Len())
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", st.Evictions)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, time.Hour)
	defer c.Close()

	c.SetWithTTL("short", 1, time.Second)
	c.Set("long", 2)
	clock.Advance(2 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Error("custom TTL entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default TTL entry should still be present")
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(newFakeClock(), time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", st.Evictions)
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(newFakeClock(), time.Minute)
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	if n := c.Clear(); n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if c.Len() != 0 {
		t.Errorf("len after clear = %d", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Error("k1 survived Clear")
	}
}

func TestCacheStats(t *testing.T) {
	c := newTestCache(newFakeClock(), time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Get("a")
	c.Get("b")
	c.Get("a")

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", st.Hits, st.Misses)
	}
	if st.Entries != 1 {
		t.Errorf("entries = %d, want 1", st.Entries)
	}
	if st.HitRate < 66.66 || st.HitRate > 66.67 {
		t.Errorf("hit rate = %.2f, want 66.67", st.HitRate)
	}
}

func TestCacheCleanup(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, time.Minute)
	defer c.Close()

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("len after cleanup = %d, want 1", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("unexpired entry removed by cleanup")
	}
	if got := c.Stats().LastCleanup; !got.Equal(clock.Now()) {
		t.Errorf("last cleanup = %v, want %v", got, clock.Now())
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New[int, string]("test", time.Minute, WithCleanupInterval(time.Millisecond))
	c.Close()
	c.Close()
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newTestCache(newFakeClock(), time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				c.Set(key, w)
				c.Get(key)
				if i%50 == 0 {
					c.Clear()
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("len = %d, want at most 10 distinct keys", c.Len())
	}
}
