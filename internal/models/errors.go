package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuantity is returned for cart quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidStatus is returned for statuses outside OrderStatuses.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidStock is returned for a product stock below zero.
	ErrInvalidStock = errors.New("stock cannot be negative")
)

// InsufficientStockError names the product that cannot cover a requested
// quantity.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)", e.ProductName, e.Requested, e.Available)
}
