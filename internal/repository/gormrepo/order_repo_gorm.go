package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save inserts the order together with its item snapshot.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		return fmt.Errorf("save order: %w", result.Error)
	}

	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID uint64) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("find orders for user %d: %w", userID, err)
	}
	return out, nil
}
