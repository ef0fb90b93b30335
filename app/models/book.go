package models

import "time"

// Parent primary keys are named ID; a BookID, CategoryID or AuthorID field
// on another model is always a foreign key to one of them.
type Category struct {
	ID   uint   `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type Author struct {
	ID        uint   `gorm:"primaryKey;column:author_id" json:"author_id"`
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Biography string `gorm:"type:text" json:"biography,omitempty"`
}

// Book doubles as the stock ledger: StockQuantity is the number of copies
// on the shelf and is only changed by conditional increments and decrements.
type Book struct {
	ID              uint       `gorm:"primaryKey;column:book_id" json:"book_id"`
	Title           string     `gorm:"size:255;not null;index" json:"title"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Price           float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity   int        `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	PublicationDate *time.Time `gorm:"type:date" json:"publication_date,omitempty"`
	Publisher       string     `gorm:"size:255" json:"publisher,omitempty"`
	CoverImageURL   string     `gorm:"size:512" json:"cover_image_url,omitempty"`
	CategoryID      *uint      `gorm:"index" json:"category_id,omitempty"`
	Category        *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Authors is filled by the book repository from book_authors; it is
	// never written through the ORM.
	Authors []Author `gorm:"-" json:"authors"`
}

// BookAuthor is the explicit join row between books and authors.
type BookAuthor struct {
	BookID   uint    `gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint    `gorm:"primaryKey;autoIncrement:false;index"`
	Book     *Book   `gorm:"foreignKey:BookID" json:"-"`
	Author   *Author `gorm:"foreignKey:AuthorID" json:"-"`
}
