package models

import "time"

// Review is a local review of a catalog volume, keyed by its Google Books ID.
type Review struct {
	ReviewID     uint      `gorm:"primaryKey;column:review_id" json:"review_id"`
	GoogleBookID string    `gorm:"size:64;not null;index" json:"google_book_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"-"`
	Rating       *int      `gorm:"check:rating IS NULL OR (rating >= 0 AND rating <= 5)" json:"rating"`
	Comment      string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
