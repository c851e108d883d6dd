package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

func newTestCache[T any](maxSize int, ttl time.Duration) (*LRUCache[T], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[T](maxSize, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCacheEviction(t *testing.T) {
	cache, _ := newTestCache[string](3, time.Hour)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Set("key3", "value3")
	cache.Set("key4", "value4") // Should evict key1

	if _, found := cache.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, key := range []string{"key2", "key3", "key4"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("%s should still be in cache", key)
		}
	}
}

func TestLRUCacheRecencyProtectsFromEviction(t *testing.T) {
	cache, _ := newTestCache[int](2, time.Hour)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a")
	cache.Set("c", 3) // b is now least recently used

	if _, found := cache.Get("b"); found {
		t.Error("b should have been evicted")
	}
	if v, found := cache.Get("a"); !found || v != 1 {
		t.Errorf("a = %v, %v; want 1, true", v, found)
	}
}

func TestLRUCacheTTLExpiration(t *testing.T) {
	cache, clock := newTestCache[string](100, 50*time.Millisecond)

	cache.Set("key1", "value1")
	if _, found := cache.Get("key1"); !found {
		t.Error("key1 should be found immediately after setting")
	}

	clock.Advance(60 * time.Millisecond)
	if _, found := cache.Get("key1"); found {
		t.Error("key1 should have expired")
	}
	if cache.Size() != 0 {
		t.Errorf("expired entry should be dropped on read, size = %d", cache.Size())
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	cache, clock := newTestCache[string](100, 50*time.Millisecond)
	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	clock.Advance(60 * time.Millisecond)
	cache.Set("key3", "value3")

	if removed := cache.CleanExpired(); removed != 2 {
		t.Errorf("Expected 2 items cleaned, got %d", removed)
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
}

func TestLRUCachePurgeAndDelete(t *testing.T) {
	cache, _ := newTestCache[string](10, time.Hour)
	cache.Set("a", "1")
	cache.Set("b", "2")

	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Error("a should be deleted")
	}

	cache.Purge()
	if cache.Size() != 0 {
		t.Errorf("Size() after Purge = %d", cache.Size())
	}
	cache.Set("c", "3")
	if _, found := cache.Get("c"); !found {
		t.Error("cache should be usable after Purge")
	}
}

func TestLRUCacheZeroTTLDisables(t *testing.T) {
	cache, _ := newTestCache[string](10, 0)
	cache.Set("a", "1")
	if _, found := cache.Get("a"); found {
		t.Error("a zero TTL should disable caching")
	}
}

func TestLRUCacheStats(t *testing.T) {
	cache, _ := newTestCache[string](10, time.Hour)
	cache.Get("a")
	cache.Set("a", "1")
	cache.Get("a")
	cache.Get("a")

	hits, misses := cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses; want 2, 1", hits, misses)
	}
}

func TestManagerStop(t *testing.T) {
	m := NewManager(nil)
	cache := NewLRUCache[string](10, time.Nanosecond)
	m.Register(cache)
	m.StartCleanup(time.Millisecond)
	m.Stop()
	m.Stop()

	unstarted := NewManager(nil)
	unstarted.Stop()
}

// BenchmarkLRUCache benchmarks cache performance
func BenchmarkLRUCache(b *testing.B) {
	cache := NewLRUCache[string](1000, time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%10 == 0 {
			cache.Set("bench-key", "value")
		} else {
			cache.Get("bench-key")
		}
	}
}
