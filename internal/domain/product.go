package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"size:255;index"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}
