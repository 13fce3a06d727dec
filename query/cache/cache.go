// Package cache provides a small LRU cache for per-table statement handles.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
}

// HitRate returns hits as a percentage of lookups
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// EvictFunc is called for every entry leaving the cache, whether evicted,
// invalidated or cleared.
type EvictFunc func(key string, value interface{})

// LRU is a least-recently-used cache. It is safe for concurrent use.
type LRU struct {
	mu      sync.Mutex
	data    map[string]*node
	maxSize int
	head    *node
	tail    *node
	stats   Stats
	onEvict EvictFunc
}

type node struct {
	key   string
	value interface{}
	prev  *node
	next  *node
}

// New creates an LRU holding at most maxSize entries. A maxSize below one
// is treated as one.
func New(maxSize int, onEvict EvictFunc) *LRU {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU{
		data:    make(map[string]*node),
		maxSize: maxSize,
		stats:   Stats{MaxSize: maxSize},
		onEvict: onEvict,
	}
}

// Key builds a cache key scoped to table
func Key(table, sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return table + ":" + hex.EncodeToString(sum[:8])
}

// Get retrieves a value and marks it most recently used
func (c *LRU) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.moveToFront(n)
	c.stats.Hits++
	return n.value, true
}

// Set stores a value, evicting the least recently used entry when full.
// Replacing an existing key evicts the old value; values must be comparable.
func (c *LRU) Set(key string, value interface{}) {
	c.mu.Lock()
	var evicted []*node
	defer func() {
		c.mu.Unlock()
		c.notify(evicted)
	}()

	if n, ok := c.data[key]; ok {
		if n.value != value {
			evicted = append(evicted, &node{key: key, value: n.value})
		}
		n.value = value
		c.moveToFront(n)
		return
	}

	if len(c.data) >= c.maxSize && c.tail != nil {
		evicted = append(evicted, c.tail)
		c.remove(c.tail)
		c.stats.Evictions++
	}

	n := &node{key: key, value: value}
	c.addToFront(n)
	c.data[key] = n
}

// InvalidatePrefix removes every key starting with prefix
func (c *LRU) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	var evicted []*node
	for key, n := range c.data {
		if strings.HasPrefix(key, prefix) {
			evicted = append(evicted, n)
			c.remove(n)
		}
	}
	c.mu.Unlock()
	c.notify(evicted)
}

// Clear removes all entries
func (c *LRU) Clear() {
	c.mu.Lock()
	evicted := make([]*node, 0, len(c.data))
	for n := c.head; n != nil; n = n.next {
		evicted = append(evicted, n)
	}
	c.data = make(map[string]*node)
	c.head = nil
	c.tail = nil
	c.mu.Unlock()
	c.notify(evicted)
}

// Len returns the number of entries
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// GetStats returns cache statistics
func (c *LRU) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

func (c *LRU) notify(evicted []*node) {
	if c.onEvict == nil {
		return
	}
	for _, n := range evicted {
		c.onEvict(n.key, n.value)
	}
}

func (c *LRU) addToFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU) moveToFront(n *node) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.addToFront(n)
}

func (c *LRU) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (c *LRU) remove(n *node) {
	c.unlink(n)
	delete(c.data, n.key)
}
