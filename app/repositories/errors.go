package repositories

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is not visible to
	// the caller.
	ErrNotFound = errors.New("record not found")

	// ErrStockConflict is returned when a conditional stock decrement matched
	// no row because stock was lower than requested.
	ErrStockConflict = errors.New("insufficient stock for conditional decrement")

	// ErrStaleLoan is returned when a loan changed state between read and
	// write inside a transaction.
	ErrStaleLoan = errors.New("loan is no longer open")

	ErrUnknownAuthor   = errors.New("unknown author")
	ErrUnknownCategory = errors.New("unknown category")
)
