package repository

import (
	"context"

	"shop-service/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID uint64) ([]domain.Order, error)
}
