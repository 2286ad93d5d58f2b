package services

import (
	"context"
	"strings"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits decimal(10,2).
var maxPrice = decimal.New(1, 8)

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int
}

type CatalogService struct {
	store repository.Store
	cache ProductCache
	log   zerolog.Logger
}

func NewCatalogService(s repository.Store, c ProductCache, log zerolog.Logger) *CatalogService {
	if c == nil {
		c = noCache{}
	}
	return &CatalogService{store: s, cache: c, log: log}
}

func validateProduct(p *domain.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return detail(ErrInvalidProduct, "name is required")
	case len(p.Name) > 255:
		return detail(ErrInvalidProduct, "name must be at most 255 characters")
	case strings.TrimSpace(p.Description) == "":
		return detail(ErrInvalidProduct, "description is required")
	case strings.TrimSpace(p.Category) == "":
		return detail(ErrInvalidProduct, "category is required")
	case len(p.Category) > 255:
		return detail(ErrInvalidProduct, "category must be at most 255 characters")
	case p.Price.IsNegative():
		return detail(ErrInvalidProduct, "price must not be negative")
	case p.Price.GreaterThanOrEqual(maxPrice):
		return detail(ErrInvalidProduct, "price must have at most 8 integer digits")
	case !p.Price.Equal(p.Price.Round(2)):
		return detail(ErrInvalidProduct, "price must have at most 2 decimal places")
	case p.Stock < 0:
		return detail(ErrInvalidProduct, "stock must not be negative")
	}
	return nil
}

func (c *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := c.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	c.log.Info().Uint64("product_id", p.ID).Msg("product created")
	return p, nil
}

func (c *CatalogService) UpdateProduct(ctx context.Context, id uint64, patch ProductPatch) (*domain.Product, error) {
	var updated *domain.Product
	err := c.store.WithTx(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if err := validateProduct(p); err != nil {
			return err
		}
		if err := tx.Products().Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return updated, nil
}

// DeleteProduct removes the product and any cart lines holding it. Order
// snapshots keep their copy of the product data.
func (c *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	err := c.store.WithTx(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		if err := tx.Carts().DeleteItemsByProduct(ctx, id); err != nil {
			return err
		}
		return tx.Products().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	c.invalidate(ctx)
	c.log.Info().Uint64("product_id", id).Msg("product deleted")
	return nil
}

func (c *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.cache.GetOrLoad(ctx, c.store.Products().FindAll)
}

func (c *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := c.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (c *CatalogService) invalidate(ctx context.Context) {
	if err := c.cache.Invalidate(ctx); err != nil {
		c.log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
