package repository

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientStock is returned when a stock decrement would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)
