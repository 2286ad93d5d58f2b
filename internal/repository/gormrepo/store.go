package gormrepo

import (
	"context"

	"shop-service/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() repository.UserRepository       { return NewUserRepository(s.db) }
func (s *store) Products() repository.ProductRepository { return NewProductRepository(s.db) }
func (s *store) Carts() repository.CartRepository       { return NewCartRepository(s.db) }
func (s *store) Orders() repository.OrderRepository     { return NewOrderRepository(s.db) }

func (s *store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
