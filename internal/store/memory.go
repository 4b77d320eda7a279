package store

import (
	"context"
	"sync"
)

// inMemory implements ProductStore using an in-memory map. Used by tests
// and local runs without a database.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
}

// NewInMemoryStore creates a new in-memory ProductStore pre-seeded with
// the given products.
func NewInMemoryStore(seed ...Product) ProductStore {
	s := &inMemory{
		products: make(map[int64]Product, len(seed)),
	}
	for _, p := range seed {
		s.products[p.ID] = p
	}
	return s
}

// FindByID retrieves a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *inMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// Save upserts the product record keyed by its ID.
func (s *inMemory) Save(_ context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = *product
	return nil
}
