package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if product.ID == 0 {
		return errors.New("failed to assign product ID")
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *productRepo) first(db *gorm.DB, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint64, by int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, by).
		UpdateColumn("stock", gorm.Expr("stock - ?", by))
	if result.Error != nil {
		return fmt.Errorf("decrement stock of product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrInsufficientStock
	}
	return nil
}
