// Package service implements the product orchestration logic: locally
// persisted pricing merged with the upstream-resolved display name.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mretail/products-api/internal/cache"
	apperrors "github.com/mretail/products-api/internal/errors"
	"github.com/mretail/products-api/internal/store"
	"github.com/mretail/products-api/internal/upstream"
)

// ProductService defines the product orchestration operations.
type ProductService interface {
	// GetProduct returns the product with the given ID, its display name
	// resolved from the upstream service on a cache miss.
	GetProduct(ctx context.Context, id int64) (*ProductDto, error)

	// UpdateProduct replaces the price of the product with the given ID
	// and refreshes the cache entry.
	UpdateProduct(ctx context.Context, id int64, price PriceDto) (*ProductDto, error)
}

// PriceDto represents the price of a product on the wire. The currency
// code is carried as-is, without validation.
type PriceDto struct {
	Value        float64 `json:"value"        validate:"gte=0"`
	CurrencyCode string  `json:"currencyCode"`
}

// ProductDto represents a product on the wire. Price is a pointer so the
// transport layer can distinguish a missing price from a zero one.
type ProductDto struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Price *PriceDto `json:"price" validate:"required"`
}

// Service implements ProductService. It owns the read-through cache and
// performs no retries: every collaborator failure is terminal for the
// request.
type Service struct {
	store    store.ProductStore
	resolver upstream.NameResolver
	cache    *cache.ProductCache
	logger   *slog.Logger
}

// NewService creates a new ProductService backed by the given store,
// name resolver and cache.
func NewService(productStore store.ProductStore, resolver upstream.NameResolver, productCache *cache.ProductCache, logger *slog.Logger) *Service {
	return &Service{
		store:    productStore,
		resolver: resolver,
		cache:    productCache,
		logger:   logger.With("component", "service"),
	}
}

var _ ProductService = (*Service)(nil)

// GetProduct returns the product for id. A cache hit returns the
// previously resolved product without contacting the store or the
// upstream service. On a miss the stored record is fetched, its name is
// resolved upstream, and the merged result is cached. Failed lookups
// never populate the cache.
func (s *Service) GetProduct(ctx context.Context, id int64) (*ProductDto, error) {
	if cached, ok := s.cache.Get(id); ok {
		s.logger.DebugContext(ctx, "Cache hit", "ID", id)
		return toDto(&cached), nil
	}

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNameNotFound) {
			s.logger.WarnContext(ctx, "Upstream has no name for product", "ID", id)
			return nil, apperrors.NotFound("unable to find the product name for ID - %d", id)
		}
		// URI-build and transport/parse failures surface identically to
		// the caller; the distinct cause stays in the log.
		s.logger.ErrorContext(ctx, "Name resolution failed", "ID", id, "error", err)
		return nil, apperrors.Server(err, "unable to resolve the product name for ID - %d", id)
	}

	product.Name = name
	s.cache.Put(id, *product)
	return toDto(product), nil
}

// UpdateProduct replaces the price of the stored product, leaving every
// other field untouched, and unconditionally overwrites the cache entry
// with the updated record (write-through).
func (s *Service) UpdateProduct(ctx context.Context, id int64, price PriceDto) (*ProductDto, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Price = store.Price{
		Value:        price.Value,
		CurrencyCode: price.CurrencyCode,
	}
	if err := s.store.Save(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save product", "ID", id, "error", err)
		return nil, apperrors.Server(err, "unable to save the product with ID - %d", id)
	}

	s.cache.Put(id, *product)
	return toDto(product), nil
}

// findProduct fetches the stored record for id, mapping store failures to
// application error kinds.
func (s *Service) findProduct(ctx context.Context, id int64) (*store.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, apperrors.NotFound("unable to find the product for ID - %d", id)
		}
		s.logger.ErrorContext(ctx, "Failed to retrieve product", "ID", id, "error", err)
		return nil, apperrors.Server(err, "product cannot be retrieved with given ID - %d", id)
	}
	return product, nil
}

func toDto(p *store.Product) *ProductDto {
	return &ProductDto{
		ID:   p.ID,
		Name: p.Name,
		Price: &PriceDto{
			Value:        p.Price.Value,
			CurrencyCode: p.Price.CurrencyCode,
		},
	}
}
