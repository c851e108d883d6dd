package http

import (
	"sync"
	"time"

	"bizspese/internal/cache"
)

// analyticsCache keeps encoded analytics responses. Every mutation bumps a
// generation counter and purges; a response computed under an older
// generation is not stored, so a purge can never be undone by a slow reader.
type analyticsCache struct {
	lru *cache.LRUCache[[]byte]

	mu  sync.Mutex
	gen uint64
}

func newAnalyticsCache(size int, ttl time.Duration) *analyticsCache {
	return &analyticsCache{lru: cache.NewLRUCache[[]byte](size, ttl)}
}

func (c *analyticsCache) get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *analyticsCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// put stores data only if no invalidation happened since gen was read.
func (c *analyticsCache) put(key string, gen uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.lru.Set(key, data)
	}
}

func (c *analyticsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}
