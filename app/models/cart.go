package models

import "time"

// CartItem is one pending selection. Purchase and borrow selections of the
// same book are separate rows.
type CartItem struct {
	CartItemID  uint      `gorm:"primaryKey;column:cart_item_id" json:"cart_item_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_book_mode" json:"user_id"`
	BookID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_book_mode" json:"book_id"`
	IsBorrowing bool      `gorm:"not null;default:false;uniqueIndex:idx_cart_user_book_mode" json:"is_borrowing"`
	Quantity    int       `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
	Book        *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
