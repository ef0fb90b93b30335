package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/app/repositories"
	"github.com/shashiranjanraj/bookstore/pkg/collection"
	"gorm.io/gorm"
)

type AddToCartInput struct {
	BookID      uint `json:"book_id" validate:"required"`
	Quantity    int  `json:"quantity" validate:"omitempty,gte=1"`
	IsBorrowing bool `json:"is_borrowing"`
}

// CartView splits a cart into what the user wants to buy and to borrow.
type CartView struct {
	PurchaseItems []models.CartItem `json:"purchase_items"`
	BorrowItems   []models.CartItem `json:"borrow_items"`
}

type CartService struct {
	carts *repositories.CartRepository
	books *repositories.BookRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts: repositories.NewCartRepository(db),
		books: repositories.NewBookRepository(db),
	}
}

// Add puts a book in the cart. A repeat add for the same book and mode
// increases the existing row's quantity. Quantity defaults to 1.
func (s *CartService) Add(ctx context.Context, userID uint, in AddToCartInput) (*models.CartItem, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	item, err := s.carts.Add(ctx, userID, in.BookID, qty, in.IsBorrowing)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}

func (s *CartService) List(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	view := &CartView{
		PurchaseItems: collection.Filter(items, func(i models.CartItem) bool { return !i.IsBorrowing }),
		BorrowItems:   collection.Filter(items, func(i models.CartItem) bool { return i.IsBorrowing }),
	}
	if view.PurchaseItems == nil {
		view.PurchaseItems = []models.CartItem{}
	}
	if view.BorrowItems == nil {
		view.BorrowItems = []models.CartItem{}
	}
	return view, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := s.carts.UpdateQuantity(ctx, userID, itemID, qty); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.carts.FindOwned(ctx, userID, itemID)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.carts.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) (int64, error) {
	n, err := s.carts.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return n, nil
}
