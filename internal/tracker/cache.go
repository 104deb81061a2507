package tracker

import (
	"sync"
	"time"
)

// taskCache is a short-lived cache of task lists keyed by list id.
// Staleness tolerance is the configured TTL; mutations invalidate
// explicitly rather than waiting for expiry.
type taskCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	tasks     []Task
	fetchedAt time.Time
}

func newTaskCache(ttl time.Duration) *taskCache {
	return &taskCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *taskCache) get(listID string) ([]Task, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[listID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		delete(c.entries, listID)
		return nil, false
	}
	return entry.tasks, true
}

func (c *taskCache) put(listID string, tasks []Task) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[listID] = cacheEntry{tasks: tasks, fetchedAt: c.now()}
}

func (c *taskCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
