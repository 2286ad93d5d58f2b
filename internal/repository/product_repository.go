package repository

import (
	"context"

	"shop-service/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	DecrementStock(ctx context.Context, id uint64, by int) error
}
