package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusFailed    OrderStatus = "failed"
)

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64          `json:"user" gorm:"not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	ShippingAddress string          `json:"shipping_address" gorm:"size:255;not null"`
	Status          OrderStatus     `json:"status" gorm:"size:50;not null;default:'pending'"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// OrderItem is copied from a cart line when the order is placed and never
// points back at the cart, so clearing the cart leaves the order intact.
type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"-" gorm:"not null;index"`
	ProductID   uint64          `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"size:255;not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
