// Package cache provides the in-process read-through cache for resolved
// products.
package cache

import (
	"container/list"
	"sync"

	"github.com/mretail/products-api/internal/store"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 1024

type entry struct {
	id      int64
	product store.Product
}

// ProductCache is a bounded LRU cache keyed by product ID. It is safe for
// concurrent use; concurrent writers for the same key follow
// last-write-wins semantics.
type ProductCache struct {
	mu       sync.Mutex
	capacity int
	items    map[int64]*list.Element
	order    *list.List // front = most recently used
}

// NewProductCache creates a cache bounded to capacity entries. A
// non-positive capacity falls back to DefaultCapacity.
func NewProductCache(capacity int) *ProductCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ProductCache{
		capacity: capacity,
		items:    make(map[int64]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached product for id, marking it as recently used.
func (c *ProductCache) Get(id int64) (store.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[id]
	if !ok {
		return store.Product{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).product, true
}

// Put stores the product under id, overwriting any previous entry and
// evicting the least recently used entry when the cache is full.
func (c *ProductCache) Put(id int64, product store.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[id]; ok {
		elem.Value.(*entry).product = product
		c.order.MoveToFront(elem)
		return
	}

	c.items[id] = c.order.PushFront(&entry{id: id, product: product})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).id)
	}
}

// Clear removes all entries.
func (c *ProductCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int64]*list.Element, c.capacity)
	c.order.Init()
}

// Len reports the number of cached entries.
func (c *ProductCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
