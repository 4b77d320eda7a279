package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

var _ ProductStore = (*PgStore)(nil)

const findByIDQuery = `
SELECT id, name, price_value, price_currency
FROM products
WHERE id = $1`

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := p.db.QueryRow(ctx, findByIDQuery, id).
		Scan(&product.ID, &product.Name, &product.Price.Value, &product.Price.CurrencyCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

const saveQuery = `
INSERT INTO products (id, name, price_value, price_currency)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET name           = EXCLUDED.name,
    price_value    = EXCLUDED.price_value,
    price_currency = EXCLUDED.price_currency`

// Save upserts the product record keyed by its ID.
func (p *PgStore) Save(ctx context.Context, product *Product) error {
	_, err := p.db.Exec(ctx, saveQuery,
		product.ID, product.Name, product.Price.Value, product.Price.CurrencyCode)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}
