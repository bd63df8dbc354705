package baseline

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// Cache stores baseline snapshots keyed by user scope. Invalidate accepts
// a trailing-* wildcard so a user's whole scope can be dropped at once.
type Cache interface {
	Get(ctx context.Context, key string) (*Snapshot, bool)
	Set(ctx context.Context, key string, snap *Snapshot, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// LRUCache is an in-process LRU snapshot cache with per-entry TTL.
type LRUCache struct {
	capacity   int
	defaultTTL time.Duration
	mu         sync.Mutex

	cache map[string]*cacheEntry
	order *list.List
}

type cacheEntry struct {
	key       string
	snap      *Snapshot
	expiresAt time.Time
	element   *list.Element
}

// NewLRUCache creates a snapshot cache. Capacity defaults to 1000 entries
// and the TTL to five minutes.
func NewLRUCache(capacity int, defaultTTL time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &LRUCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		cache:      make(map[string]*cacheEntry),
		order:      list.New(),
	}
}

func (c *LRUCache) Get(_ context.Context, key string) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		return nil, false
	}
	c.order.MoveToFront(e.element)
	return e.snap, true
}

func (c *LRUCache) Set(_ context.Context, key string, snap *Snapshot, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.cache[key]; ok {
		e.snap = snap
		e.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(e.element)
		return nil
	}

	for len(c.cache) >= c.capacity {
		c.evictOldest()
	}

	e := &cacheEntry{
		key:       key,
		snap:      snap,
		expiresAt: time.Now().Add(ttl),
	}
	e.element = c.order.PushFront(e)
	c.cache[key] = e
	return nil
}

// Invalidate removes entries matching the pattern. A trailing * matches
// by prefix, anything else is an exact key.
func (c *LRUCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.Contains(pattern, "*") {
		if e, ok := c.cache[pattern]; ok {
			c.removeEntry(e)
		}
		return nil
	}

	prefix := strings.TrimSuffix(pattern, "*")
	for key, e := range c.cache {
		if strings.HasPrefix(key, prefix) {
			c.removeEntry(e)
		}
	}
	return nil
}

// Size returns the number of live entries.
func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Must be called with lock held.
func (c *LRUCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.removeEntry(oldest.Value.(*cacheEntry))
}

// Must be called with lock held.
func (c *LRUCache) removeEntry(e *cacheEntry) {
	c.order.Remove(e.element)
	delete(c.cache, e.key)
}
