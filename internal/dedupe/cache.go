package dedupe

import (
	"sync"
	"time"
)

// Cache remembers which headline documents were already indexed so polling
// cycles do not rewrite the same document every interval. Entries expire
// after ttl; once capacity is exceeded the oldest entries are dropped.
type Cache struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	queue    []string
	capacity int
	ttl      time.Duration
}

// New creates a cache with the provided capacity and ttl.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		seen:     make(map[string]time.Time, capacity),
		queue:    make([]string, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Seen reports whether id was added within the ttl window. It records
// nothing; pair it with Add.
func (c *Cache) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.seen[id]
	return ok && time.Since(at) <= c.ttl
}

// Add records id as indexed and prunes expired or excess entries.
func (c *Cache) Add(id string) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[id]; !ok {
		c.queue = append(c.queue, id)
	}
	c.seen[id] = now
	c.prune(now)
}

// prune drops queue entries from the front while they are expired or the
// cache is over capacity. Each id appears in the queue exactly once.
func (c *Cache) prune(now time.Time) {
	cutoff := now.Add(-c.ttl)
	for len(c.queue) > 0 {
		oldest := c.queue[0]
		at, ok := c.seen[oldest]
		expired := !ok || at.Before(cutoff)
		if !expired && len(c.seen) <= c.capacity {
			break
		}
		c.queue = c.queue[1:]
		if ok {
			delete(c.seen, oldest)
		}
	}
}
