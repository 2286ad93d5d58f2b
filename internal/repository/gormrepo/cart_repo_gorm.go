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

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product")
}

func (r *cartRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	return r.first(withItems(r.db.WithContext(ctx)), userID)
}

func (r *cartRepo) FindByUserIDForUpdate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	return r.first(withItems(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})), userID)
}

func (r *cartRepo) first(db *gorm.DB, userID uint64) (*domain.Cart, error) {
	var c domain.Cart
	if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find cart of user %d: %w", userID, err)
	}
	return &c, nil
}

// GetOrCreate returns the user's cart, creating it on first use. An existing
// cart row is locked for the rest of the transaction.
func (r *cartRepo) GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	locked := func() *gorm.DB {
		return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	}
	c, err := r.first(locked(), userID)
	if err != nil || c != nil {
		return c, err
	}

	// the insert runs under a savepoint so a unique violation leaves the
	// surrounding transaction usable
	c = &domain.Cart{UserID: userID}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent first add created the cart after our read
		existing, ferr := r.first(locked(), userID)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, fmt.Errorf("get or create cart of user %d: %w", userID, err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get or create cart of user %d: %w", userID, err)
	}
	return c, nil
}

func (r *cartRepo) AddItem(ctx context.Context, item *domain.CartItem) error {
	if err := r.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *cartRepo) HasProduct(ctx context.Context, cartID, productID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check cart %d for product %d: %w", cartID, productID, err)
	}
	return n > 0, nil
}

func (r *cartRepo) ClearItems(ctx context.Context, cartID uint64) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart %d: %w", cartID, err)
	}
	return nil
}

func (r *cartRepo) DeleteItemsByProduct(ctx context.Context, productID uint64) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("remove product %d from carts: %w", productID, err)
	}
	return nil
}
