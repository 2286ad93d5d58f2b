package repository

import (
	"context"

	"shop-service/internal/domain"
)

type CartRepository interface {
	// FindByUserID returns the cart with its items and their products.
	FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error)
	// FindByUserIDForUpdate is FindByUserID with the cart row locked.
	FindByUserIDForUpdate(ctx context.Context, userID uint64) (*domain.Cart, error)
	GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error)
	AddItem(ctx context.Context, item *domain.CartItem) error
	HasProduct(ctx context.Context, cartID, productID uint64) (bool, error)
	ClearItems(ctx context.Context, cartID uint64) error
	DeleteItemsByProduct(ctx context.Context, productID uint64) error
}
