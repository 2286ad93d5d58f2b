package domain

import "time"

// Cart is created lazily on the first add and is never removed; placing an
// order only clears its items.
type Cart struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `json:"user" gorm:"not null;uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID    uint64    `json:"-" gorm:"not null;index"`
	ProductID uint64    `json:"-" gorm:"not null;index"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
