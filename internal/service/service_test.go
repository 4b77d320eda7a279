package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mretail/products-api/internal/cache"
	apperrors "github.com/mretail/products-api/internal/errors"
	"github.com/mretail/products-api/internal/store"
	"github.com/mretail/products-api/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	product   store.Product
	findErr   error
	saveErr   error
	findCalls int
	saveCalls int
	saved     *store.Product
}

// Simulate finding a product by ID
func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*store.Product, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	p := m.product
	return &p, nil
}

// Simulate saving a product
func (m *mockProductStore) Save(_ context.Context, product *store.Product) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	p := *product
	m.saved = &p
	return nil
}

// mockNameResolver is a mock implementation of the NameResolver interface
type mockNameResolver struct {
	name  string
	err   error
	calls int
}

func (m *mockNameResolver) Resolve(_ context.Context, _ int64) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.name, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedProduct() store.Product {
	return store.Product{
		ID:    1,
		Price: store.Price{Value: 4, CurrencyCode: "USD"},
	}
}

func Test_ProductService_GetProduct(t *testing.T) {
	testCases := []struct {
		name         string
		mockStore    *mockProductStore
		mockResolver *mockNameResolver
		productID    int64
		expected     *ProductDto
		expectedKind apperrors.Kind
		expectError  bool
	}{
		{
			name:         "Success - price from store, name from upstream",
			mockStore:    &mockProductStore{product: storedProduct()},
			mockResolver: &mockNameResolver{name: "Test Title"},
			productID:    1,
			expected: &ProductDto{
				ID:    1,
				Name:  "Test Title",
				Price: &PriceDto{Value: 4, CurrencyCode: "USD"},
			},
		},
		{
			name:         "Error - product absent in store",
			mockStore:    &mockProductStore{findErr: store.ErrProductNotFound},
			mockResolver: &mockNameResolver{name: "Test Title"},
			productID:    2,
			expectError:  true,
			expectedKind: apperrors.KindNotFound,
		},
		{
			name:         "Error - store failure",
			mockStore:    &mockProductStore{findErr: errors.New("connection reset")},
			mockResolver: &mockNameResolver{name: "Test Title"},
			productID:    1,
			expectError:  true,
			expectedKind: apperrors.KindServer,
		},
		{
			name:         "Error - upstream transport failure is a server failure, never not-found",
			mockStore:    &mockProductStore{product: storedProduct()},
			mockResolver: &mockNameResolver{err: upstream.ErrUpstreamUnavailable},
			productID:    1,
			expectError:  true,
			expectedKind: apperrors.KindServer,
		},
		{
			name:         "Error - URI build failure is a server failure",
			mockStore:    &mockProductStore{product: storedProduct()},
			mockResolver: &mockNameResolver{err: upstream.ErrURIBuild},
			productID:    1,
			expectError:  true,
			expectedKind: apperrors.KindServer,
		},
		{
			name:         "Error - name absent upstream is not-found",
			mockStore:    &mockProductStore{product: storedProduct()},
			mockResolver: &mockNameResolver{err: upstream.ErrNameNotFound},
			productID:    1,
			expectError:  true,
			expectedKind: apperrors.KindNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			productCache := cache.NewProductCache(8)
			svc := NewService(tc.mockStore, tc.mockResolver, productCache, newTestLogger())
			// when
			found, err := svc.GetProduct(context.Background(), tc.productID)
			// then
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, tc.expectedKind, apperrors.KindOf(err))
				assert.Nil(t, found)
				// failed calls must not populate the cache
				assert.Equal(t, 0, productCache.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
			assert.Equal(t, 1, productCache.Len())
		})
	}
}

func Test_ProductService_GetProduct_CacheShortCircuit(t *testing.T) {
	// given
	mockStore := &mockProductStore{product: storedProduct()}
	mockResolver := &mockNameResolver{name: "Test Title"}
	svc := NewService(mockStore, mockResolver, cache.NewProductCache(8), newTestLogger())

	// when
	first, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	// then: the second call is served from the cache without touching
	// the store or the upstream service
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mockStore.findCalls)
	assert.Equal(t, 1, mockResolver.calls)
}

func Test_ProductService_UpdateProduct(t *testing.T) {
	testCases := []struct {
		name         string
		mockStore    *mockProductStore
		productID    int64
		price        PriceDto
		expectedKind apperrors.Kind
		expectError  bool
	}{
		{
			name:      "Success - price replaced",
			mockStore: &mockProductStore{product: storedProduct()},
			productID: 1,
			price:     PriceDto{Value: 5, CurrencyCode: "USD"},
		},
		{
			name:         "Error - product absent in store",
			mockStore:    &mockProductStore{findErr: store.ErrProductNotFound},
			productID:    2,
			price:        PriceDto{Value: 5, CurrencyCode: "USD"},
			expectError:  true,
			expectedKind: apperrors.KindNotFound,
		},
		{
			name:         "Error - lookup failure",
			mockStore:    &mockProductStore{findErr: errors.New("connection reset")},
			productID:    1,
			price:        PriceDto{Value: 5, CurrencyCode: "USD"},
			expectError:  true,
			expectedKind: apperrors.KindServer,
		},
		{
			name:         "Error - save failure",
			mockStore:    &mockProductStore{product: storedProduct(), saveErr: errors.New("disk full")},
			productID:    1,
			price:        PriceDto{Value: 5, CurrencyCode: "USD"},
			expectError:  true,
			expectedKind: apperrors.KindServer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := NewService(tc.mockStore, &mockNameResolver{name: "Test Title"}, cache.NewProductCache(8), newTestLogger())
			// when
			updated, err := svc.UpdateProduct(context.Background(), tc.productID, tc.price)
			// then
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, tc.expectedKind, apperrors.KindOf(err))
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.productID, updated.ID)
			assert.Equal(t, tc.price.Value, updated.Price.Value)
			require.NotNil(t, tc.mockStore.saved)
			// only the price changes on the persisted record
			assert.Equal(t, tc.productID, tc.mockStore.saved.ID)
			assert.Equal(t, tc.price.Value, tc.mockStore.saved.Price.Value)
			assert.Equal(t, tc.price.CurrencyCode, tc.mockStore.saved.Price.CurrencyCode)
			assert.Empty(t, tc.mockStore.saved.Name)
		})
	}
}

func Test_ProductService_UpdateProduct_WriteThroughCache(t *testing.T) {
	// given: a cached product from a previous read
	mockStore := &mockProductStore{product: storedProduct()}
	mockResolver := &mockNameResolver{name: "Test Title"}
	svc := NewService(mockStore, mockResolver, cache.NewProductCache(8), newTestLogger())

	_, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	// when: the price is updated
	_, err = svc.UpdateProduct(context.Background(), 1, PriceDto{Value: 5, CurrencyCode: "USD"})
	require.NoError(t, err)

	// then: a subsequent read serves the refreshed cache entry without
	// contacting the store or the upstream service again
	found, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, float64(5), found.Price.Value)
	assert.Equal(t, 2, mockStore.findCalls) // initial read + update lookup
	assert.Equal(t, 1, mockResolver.calls)
}
