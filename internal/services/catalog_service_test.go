package services

import (
	"context"
	"errors"
	"testing"

	"shop-service/internal/domain"
	"shop-service/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		input         ProductInput
		setupMocks    func(*mocks.MockStore, *mocks.MockProductCache)
		expectedError error
	}{
		{
			name:  "valid product",
			input: ProductInput{Name: " Mug ", Description: "ceramic", Price: decimal.RequireFromString("9.50"), Category: "kitchen", Stock: 5},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Product).ID = TestProductID
				})
				c.On("Invalidate", mock.Anything).Return(nil)
			},
		},
		{
			name:  "cache invalidation failure is not fatal",
			input: ProductInput{Name: "Mug", Description: "ceramic", Price: decimal.RequireFromString("1"), Category: "kitchen", Stock: 0},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
				c.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
			},
		},
		{
			name:          "missing name",
			input:         ProductInput{Name: "  ", Description: "ceramic", Category: "kitchen", Price: decimal.RequireFromString("1")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "missing description",
			input:         ProductInput{Name: "Mug", Description: " ", Category: "kitchen", Price: decimal.RequireFromString("1")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "missing category",
			input:         ProductInput{Name: "Mug", Description: "ceramic", Price: decimal.RequireFromString("1")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "negative price",
			input:         ProductInput{Name: "Mug", Description: "ceramic", Category: "kitchen", Price: decimal.RequireFromString("-0.01")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "too many decimal places",
			input:         ProductInput{Name: "Mug", Description: "ceramic", Category: "kitchen", Price: decimal.RequireFromString("1.005")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "price does not fit decimal(10,2)",
			input:         ProductInput{Name: "Mug", Description: "ceramic", Category: "kitchen", Price: decimal.RequireFromString("100000000")},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
		{
			name:          "negative stock",
			input:         ProductInput{Name: "Mug", Description: "ceramic", Category: "kitchen", Price: decimal.RequireFromString("1"), Stock: -1},
			setupMocks:    func(*mocks.MockStore, *mocks.MockProductCache) {},
			expectedError: ErrInvalidProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			cache := new(mocks.MockProductCache)
			tt.setupMocks(store, cache)

			svc := NewCatalogService(store, cache, nopLogger())
			p, err := svc.CreateProduct(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, KindValidation, KindOf(err))
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Mug", p.Name)
			}
			store.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	newName := "Big Mug"
	newStock := 12
	badStock := -3
	newPrice := decimal.RequireFromString("11.25")

	tests := []struct {
		name          string
		patch         ProductPatch
		setupMocks    func(*mocks.MockStore, *mocks.MockProductCache)
		expectedError error
		check         func(*testing.T, *domain.Product)
	}{
		{
			name:  "partial update keeps other fields",
			patch: ProductPatch{Name: &newName, Stock: &newStock},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateMockProduct(TestProductID, "Mug", "9.50", 5), nil)
				s.ProductRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
				c.On("Invalidate", mock.Anything).Return(nil)
			},
			check: func(t *testing.T, p *domain.Product) {
				assert.Equal(t, "Big Mug", p.Name)
				assert.Equal(t, 12, p.Stock)
				assert.True(t, decimal.RequireFromString("9.50").Equal(p.Price))
				assert.Equal(t, "test", p.Category)
			},
		},
		{
			name:  "price update",
			patch: ProductPatch{Price: &newPrice},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateMockProduct(TestProductID, "Mug", "9.50", 5), nil)
				s.ProductRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
				c.On("Invalidate", mock.Anything).Return(nil)
			},
			check: func(t *testing.T, p *domain.Product) {
				assert.True(t, newPrice.Equal(p.Price))
			},
		},
		{
			name:  "unknown product",
			patch: ProductPatch{Name: &newName},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(nil, nil)
			},
			expectedError: ErrProductNotFound,
		},
		{
			name:  "invalid patch",
			patch: ProductPatch{Stock: &badStock},
			setupMocks: func(s *mocks.MockStore, c *mocks.MockProductCache) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateMockProduct(TestProductID, "Mug", "9.50", 5), nil)
			},
			expectedError: ErrInvalidProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			cache := new(mocks.MockProductCache)
			tt.setupMocks(store, cache)

			svc := NewCatalogService(store, cache, nopLogger())
			p, err := svc.UpdateProduct(context.Background(), TestProductID, tt.patch)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, p)
				store.ProductRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				tt.check(t, p)
			}
			assert.Equal(t, 1, store.TxCalls)
			store.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Run("removes cart lines then product", func(t *testing.T) {
		store := mocks.NewMockStore()
		cache := new(mocks.MockProductCache)
		store.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateMockProduct(TestProductID, "Mug", "9.50", 5), nil)
		store.CartRepo.On("DeleteItemsByProduct", mock.Anything, TestProductID).Return(nil)
		store.ProductRepo.On("Delete", mock.Anything, TestProductID).Return(nil)
		cache.On("Invalidate", mock.Anything).Return(nil)

		svc := NewCatalogService(store, cache, nopLogger())
		require.NoError(t, svc.DeleteProduct(context.Background(), TestProductID))

		assert.Equal(t, 1, store.TxCalls)
		store.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		store := mocks.NewMockStore()
		cache := new(mocks.MockProductCache)
		store.ProductRepo.On("FindByIDForUpdate", mock.Anything, uint64(999)).Return(nil, nil)

		svc := NewCatalogService(store, cache, nopLogger())
		err := svc.DeleteProduct(context.Background(), 999)

		assert.ErrorIs(t, err, ErrProductNotFound)
		store.ProductRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestCatalogService_ListProducts(t *testing.T) {
	products := []domain.Product{*CreateMockProduct(1, "Mug", "9.50", 5), *CreateMockProduct(2, "Lamp", "20.00", 0)}

	t.Run("cache hit skips the database", func(t *testing.T) {
		store := mocks.NewMockStore()
		cache := new(mocks.MockProductCache)
		cache.On("GetOrLoad", mock.Anything).Return(products)

		svc := NewCatalogService(store, cache, nopLogger())
		got, err := svc.ListProducts(context.Background())

		require.NoError(t, err)
		assert.Len(t, got, 2)
		store.ProductRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("cache miss loads from the database", func(t *testing.T) {
		store := mocks.NewMockStore()
		cache := new(mocks.MockProductCache)
		cache.On("GetOrLoad", mock.Anything).Return(nil)
		store.ProductRepo.On("FindAll", mock.Anything).Return(products, nil)

		svc := NewCatalogService(store, cache, nopLogger())
		got, err := svc.ListProducts(context.Background())

		require.NoError(t, err)
		assert.Equal(t, products, got)
		store.AssertExpectations(t)
	})

	t.Run("no cache configured", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.ProductRepo.On("FindAll", mock.Anything).Return(products, nil)

		svc := NewCatalogService(store, nil, nopLogger())
		got, err := svc.ListProducts(context.Background())

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	store := mocks.NewMockStore()
	store.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(CreateMockProduct(TestProductID, "Mug", "9.50", 5), nil)
	store.ProductRepo.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)

	svc := NewCatalogService(store, nil, nopLogger())

	p, err := svc.GetProduct(context.Background(), TestProductID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)

	_, err = svc.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}
