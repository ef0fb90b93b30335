package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bookstore/app/repositories"
)

// Validation errors.
var (
	ErrInvalidDuration = errors.New("invalid loan duration")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
	ErrEmptyQuery      = errors.New("search query is required")
)

// Business-rule errors.
var (
	ErrEmptyBorrowCart   = errors.New("no items marked for borrowing found in cart")
	ErrAlreadyReturned   = errors.New("this book has already been returned")
	ErrLoanNotReturnable = errors.New("this loan was cancelled and cannot be returned")
	ErrUnknownAuthor     = repositories.ErrUnknownAuthor
	ErrUnknownCategory   = repositories.ErrUnknownCategory
)

// Not-found errors.
var (
	ErrLoanNotFound     = errors.New("loan record not found or does not belong to user")
	ErrBookNotFound     = errors.New("book not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCatalogNotFound  = errors.New("book not found in catalog")
)

// Identity errors.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Upstream errors.
var (
	ErrCatalogUnconfigured = errors.New("catalog API key is not configured")
	ErrCatalogUnavailable  = errors.New("catalog service is unavailable")
)

// InsufficientStockError reports the first book whose shelf could not cover
// the borrow cart.
type InsufficientStockError struct {
	BookID    uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book ID %d", e.BookID)
}
