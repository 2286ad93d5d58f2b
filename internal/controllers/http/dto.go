package http

import "github.com/shopspring/decimal"

type SignUpRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Address         string `json:"address" binding:"max=255"`
}

type SignUpResponse struct {
	Message string `json:"message"`
	UserID  uint64 `json:"user_id"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Price is a pointer so that a missing price fails binding instead of
// silently becoming zero.
type ProductRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required,max=255"`
	Stock       int              `json:"stock" binding:"min=0"`
}

type ProductPatchRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" binding:"omitempty,max=255"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
}

type ProductCreatedResponse struct {
	Message   string `json:"message"`
	ProductID uint64 `json:"product_id"`
}

type AddToCartRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"max=255"`
}

type OrderPlacedResponse struct {
	Message string `json:"message"`
	OrderID uint64 `json:"order_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
