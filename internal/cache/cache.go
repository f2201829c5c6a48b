// Package cache is the read-side result cache. It is constructed in main
// and injected into whatever needs it; there is no package-level instance.
package cache

import (
	"sync"
	"time"
)

// TTL is how long an entry is considered fresh after Set.
const TTL = 5 * time.Hour

// Key scopes entries per resource/source combination. Setting one key
// never affects another.
type Key struct {
	Resource string
	Source   string
}

type entry struct {
	data     interface{}
	storedAt time.Time
}

// Cache holds fetched results in memory with a staleness rule: entries
// past TTL are reported stale but still returned, never evicted. A process
// restart is a full miss for every key; that is acceptable, this is a
// session optimization, not a durability mechanism.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Key]entry
}

func New() *Cache {
	return NewWithClock(TTL, time.Now)
}

// NewWithClock exists for tests that need to move time.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[Key]entry),
	}
}

// Get returns the cached data, whether it is stale, and whether the key
// was present at all. Stale data is still data; the caller decides
// whether to serve it while refreshing.
func (c *Cache) Get(key Key) (interface{}, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	stale := c.now().Sub(e.storedAt) > c.ttl
	return e.data, stale, true
}

// Set stores data under key, resetting its freshness window.
func (c *Cache) Set(key Key, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, storedAt: c.now()}
}
