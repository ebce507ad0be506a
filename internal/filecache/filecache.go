// Package filecache keeps recently used file contents in memory, bounded by
// a total byte budget.
package filecache

import (
	"container/list"
	"sync"
)

// DefaultBudget is the byte budget used when New is given a non-positive one.
const DefaultBudget = 64 << 20

// Stats are cache statistics.
type Stats struct {
	Len       int
	Size      int64
	Budget    int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Cache is an LRU cache of file contents keyed by path.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	budget  int64
	size    int64
	entries map[string]*list.Element
	lru     *list.List // front is most recent

	hits, misses, evictions uint64
}

type entry struct {
	key  string
	data []byte
}

// New creates a cache holding at most budget bytes.
func New(budget int64) *Cache {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Cache{
		budget:  budget,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the cached contents of key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(el)
	return el.Value.(*entry).data, true
}

// GetOrLoad returns the cached contents of key, calling load on a miss.
// Contents larger than the whole budget are returned but not kept.
//
// load runs without the lock held; concurrent misses may load twice.
func (c *Cache) GetOrLoad(key string, load func(string) ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}
	data, err := load(key)
	if err != nil {
		return nil, err
	}
	c.Set(key, data)
	return data, nil
}

// Set stores data under key, evicting the least recently used entries to
// stay within budget.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	n := int64(len(data))
	if n > c.budget {
		return
	}
	for c.size+n > c.budget {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
		c.evictions++
	}
	c.entries[key] = c.lru.PushFront(&entry{key: key, data: data})
	c.size += n
}

func (c *Cache) remove(el *list.Element) {
	e := c.lru.Remove(el).(*entry)
	delete(c.entries, e.key)
	c.size -= int64(len(e.data))
}

// Stats returns current statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	var rate float64
	if total := c.hits + c.misses; total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Len:       len(c.entries),
		Size:      c.size,
		Budget:    c.budget,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   rate,
	}
}
