// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when no product exists for the requested ID.
var ErrProductNotFound = errors.New("product not found")

// Price is the monetary value of a product. It is replaced wholesale on
// update, never merged field by field.
type Price struct {
	Value        float64
	CurrencyCode string
}

// Product is a persisted product record. The name column exists in the
// storage schema but is never trusted on read; the service overwrites it
// with the upstream-resolved title.
type Product struct {
	ID    int64
	Name  string
	Price Price
}

// ProductStore abstracts the key-value persistence collaborator, allowing
// for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Save upserts the product record keyed by its ID.
	Save(ctx context.Context, product *Product) error
}
