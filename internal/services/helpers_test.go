package services

import (
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/infra/token"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	TestUserID    = uint64(1)
	TestProductID = uint64(10)
	TestCartID    = uint64(100)
	TestSecret    = "test-secret"
)

var testIssuedAt = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestMaker() *token.Maker {
	m, err := token.NewMaker(TestSecret, 24*time.Hour, token.WithClock(func() time.Time { return testIssuedAt }))
	if err != nil {
		panic(err)
	}
	return m
}

func CreateMockProduct(id uint64, name, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		Category:    "test",
		Stock:       stock,
	}
}

func CreateMockCart(id, userID uint64, products ...*domain.Product) *domain.Cart {
	cart := &domain.Cart{ID: id, UserID: userID, Items: []domain.CartItem{}}
	for i, p := range products {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        uint64(i + 1),
			CartID:    id,
			ProductID: p.ID,
			Product:   *p,
			Quantity:  1,
		})
	}
	return cart
}
