package ingest

import (
	"sync"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// DefaultCacheSize is how many normalized datasets the loader keeps.
const DefaultCacheSize = 8

// Cache maps a source signature to its normalized dataset. The oldest entry
// is evicted once the cache is full.
type Cache struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string][]event.Event
}

func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{
		max:     max,
		entries: make(map[string][]event.Event, max),
	}
}

func (c *Cache) Get(signature string) ([]event.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	events, ok := c.entries[signature]
	return events, ok
}

func (c *Cache) Put(signature string, events []event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[signature]; !ok {
		c.order = append(c.order, signature)
	}
	c.entries[signature] = events

	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Invalidate drops one signature, or everything when signature is empty.
func (c *Cache) Invalidate(signature string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if signature == "" {
		c.order = nil
		c.entries = make(map[string][]event.Event, c.max)
		return
	}
	if _, ok := c.entries[signature]; !ok {
		return
	}
	delete(c.entries, signature)
	for i, s := range c.order {
		if s == signature {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
