package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/bookstore/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository handles cart rows. Every method is scoped to a user.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// Add inserts a row or, when (user, book, mode) already exists, increases
// its quantity by qty in the same statement.
func (r *CartRepository) Add(ctx context.Context, userID, bookID uint, qty int, borrowing bool) (*models.CartItem, error) {
	db := r.db.WithContext(ctx)

	item := models.CartItem{UserID: userID, BookID: bookID, IsBorrowing: borrowing, Quantity: qty}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}, {Name: "is_borrowing"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("cart_items.quantity + ?", qty)}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	var stored models.CartItem
	err = db.Preload("Book").
		Where("user_id = ? AND book_id = ? AND is_borrowing = ?", userID, bookID, borrowing).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByUser returns every cart row of the user with its book.
func (r *CartRepository) ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ?", userID).
		Order("cart_item_id ASC").
		Find(&items).Error
	return items, err
}

// ListBorrowing returns the user's borrow-flagged rows.
func (r *CartRepository) ListBorrowing(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_borrowing = ?", userID, true).
		Order("book_id ASC").
		Find(&items).Error
	return items, err
}

func (r *CartRepository) FindOwned(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Book").
		Where("cart_item_id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &item, err
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_item_id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID uint) error {
	res := r.db.WithContext(ctx).
		Where("cart_item_id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every row of the user and returns how many went.
func (r *CartRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteBorrowing removes only the user's borrow-flagged rows.
func (r *CartRepository) DeleteBorrowing(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND is_borrowing = ?", userID, true).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
