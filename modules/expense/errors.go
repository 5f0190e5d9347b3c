package expense

import "errors"

var (
	// ErrExpenseNotFound indicates no expense matches the lookup.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrUnknownCategory indicates a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown expense category")
)
