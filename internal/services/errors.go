package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error so transports can map it to a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuth
	KindConflict
	KindForbidden
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrPasswordMismatch        = newError(KindValidation, "passwords do not match")
	ErrEmailTaken              = newError(KindValidation, "a user with this email already exists")
	ErrUsernameTaken           = newError(KindValidation, "a user with this username already exists")
	ErrMissingField            = newError(KindValidation, "missing required field")
	ErrPasswordTooLong         = newError(KindValidation, "password must be at most 72 bytes")
	ErrInvalidProduct          = newError(KindValidation, "invalid product")
	ErrShippingAddressRequired = newError(KindValidation, "shipping address is required")

	ErrUserNotFound    = newError(KindNotFound, "user not found")
	ErrProductNotFound = newError(KindNotFound, "product not found")
	ErrCartNotFound    = newError(KindNotFound, "no cart found")
	ErrOrderNotFound   = newError(KindNotFound, "order not found")

	ErrInvalidCredentials = newError(KindAuth, "invalid credentials")
	ErrInvalidToken       = newError(KindAuth, "invalid or expired token")

	ErrOutOfStock    = newError(KindConflict, "product is out of stock")
	ErrAlreadyInCart = newError(KindConflict, "product already in cart")
	ErrCartEmpty     = newError(KindConflict, "cart is empty")

	ErrAdminRequired = newError(KindForbidden, "admin role required")
)

// detail wraps a sentinel with extra context while keeping errors.Is and
// errors.As working on the sentinel.
func detail(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
