package services

import (
	"context"
	"errors"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"github.com/rs/zerolog"
)

type CartService struct {
	store repository.Store
	cache ProductCache
	log   zerolog.Logger
}

func NewCartService(s repository.Store, c ProductCache, log zerolog.Logger) *CartService {
	if c == nil {
		c = noCache{}
	}
	return &CartService{store: s, cache: c, log: log}
}

// AddToCart puts one unit of the product in the user's cart and takes it out
// of stock. The product and cart rows stay locked until the item is written,
// so concurrent adds cannot oversell or duplicate a line.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint64) (*domain.CartItem, error) {
	var item *domain.CartItem
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.InStock() {
			return ErrOutOfStock
		}

		cart, err := tx.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		exists, err := tx.Carts().HasProduct(ctx, cart.ID, product.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyInCart
		}

		item = &domain.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
		if err := tx.Carts().AddItem(ctx, item); err != nil {
			return err
		}
		if err := tx.Products().DecrementStock(ctx, product.ID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return ErrOutOfStock
			}
			return err
		}
		product.Stock -= item.Quantity
		item.Product = *product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("product cache invalidation failed")
	}
	s.log.Debug().Uint64("user_id", userID).Uint64("product_id", productID).Msg("product added to cart")
	return item, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	cart, err := s.store.Carts().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}
