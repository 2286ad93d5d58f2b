package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	OrderID     uint64          `json:"orderId"`
	UserID      uint64          `json:"userId"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type UserRegisteredEvent struct {
	UserID    uint64    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
