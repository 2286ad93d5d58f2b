package services

import (
	"context"
	"strings"
	"time"

	"shop-service/internal/domain"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	log       zerolog.Logger
}

func NewOrderService(s repository.Store, pub rabbit.PublisherInterface, log zerolog.Logger) *OrderService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	return &OrderService{
		store:     s,
		publisher: pub,
		log:       log,
	}
}

func snapshotItem(ci domain.CartItem, _ int) domain.OrderItem {
	return domain.OrderItem{
		ProductID:   ci.ProductID,
		ProductName: ci.Product.Name,
		UnitPrice:   ci.Product.Price,
		Quantity:    ci.Quantity,
	}
}

func orderTotal(items []domain.OrderItem) decimal.Decimal {
	return lo.Reduce(items, func(acc decimal.Decimal, it domain.OrderItem, _ int) decimal.Decimal {
		return acc.Add(it.Subtotal())
	}, decimal.Zero)
}

// PlaceOrder turns the user's cart into an order and empties the cart in one
// transaction. An empty shippingAddress falls back to the user's address.
func (u *OrderService) PlaceOrder(ctx context.Context, userID uint64, shippingAddress string) (*domain.Order, error) {
	address := strings.TrimSpace(shippingAddress)

	var order *domain.Order
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		if cart.IsEmpty() {
			return ErrCartEmpty
		}

		if address == "" {
			user, err := tx.Users().FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if user != nil {
				address = user.Address
			}
		}
		if address == "" {
			return ErrShippingAddressRequired
		}

		items := lo.Map(cart.Items, snapshotItem)
		order = &domain.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     orderTotal(items),
			ShippingAddress: address,
			Status:          domain.StatusPending,
			CreatedAt:       time.Now(),
		}
		if err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}
		return tx.Carts().ClearItems(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	u.publishOrderPlacedEvent(ctx, order)
	return order, nil
}

func (u *OrderService) publishOrderPlacedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		ItemCount:   len(order.Items),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	if err := u.publisher.Publish(ctx, rabbit.RoutingOrderPlaced, evt); err != nil {
		u.log.Warn().Err(err).Uint64("order_id", order.ID).Msg("failed to publish order.placed")
		return
	}
	u.log.Info().Uint64("order_id", order.ID).Str("total", order.TotalAmount.StringFixed(2)).Msg("order placed")
}

func (u *OrderService) ListOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	orders, err := u.store.Orders().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// GetOrder returns one of the user's orders. Orders of other users are
// reported as not found.
func (u *OrderService) GetOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	o, err := u.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}
