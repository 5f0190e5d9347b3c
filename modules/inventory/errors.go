package inventory

import "errors"

var (
	// ErrStockNotFound indicates no stock line matches the lookup.
	ErrStockNotFound = errors.New("stock item not found")
	// ErrInsufficientStock indicates a deduction larger than what is on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)
