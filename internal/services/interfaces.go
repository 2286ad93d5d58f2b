package services

import (
	"context"

	"shop-service/internal/domain"
	"shop-service/internal/infra/cache"
	"shop-service/internal/infra/token"
)

type ProductCache interface {
	GetOrLoad(ctx context.Context, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error)
	Invalidate(ctx context.Context) error
}

type TokenMaker interface {
	IssuePair(userID uint64, role string) (token.Pair, error)
	IssueAccess(userID uint64, role string) (string, error)
	Verify(tokenString string, want token.Type) (*token.Claims, error)
}

var (
	_ ProductCache = (*cache.ProductCache)(nil)
	_ ProductCache = noCache{}
	_ TokenMaker   = (*token.Maker)(nil)
)

// noCache always loads from the database.
type noCache struct{}

func (noCache) GetOrLoad(ctx context.Context, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	return load(ctx)
}

func (noCache) Invalidate(context.Context) error { return nil }
