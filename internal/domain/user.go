package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Address      string    `json:"address" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:'customer'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
