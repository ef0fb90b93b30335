package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/pkg/collection"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookRepository owns books, their stock ledger and the book_authors join.
type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *BookRepository) WithTx(tx *gorm.DB) *BookRepository {
	return &BookRepository{db: tx}
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Omit("Category").Create(book).Error
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Preload("Category").First(&book, "book_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	authors, err := r.authorsFor(ctx, []uint{book.ID})
	if err != nil {
		return nil, err
	}
	book.Authors = authors[book.ID]
	return &book, nil
}

// List returns every book ordered by title, with category and authors.
func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Preload("Category").Order("title ASC, book_id ASC").Find(&books).Error; err != nil {
		return nil, err
	}

	authors, err := r.authorsFor(ctx, collection.Map(books, func(b models.Book) uint { return b.ID }))
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Authors = authors[books[i].ID]
	}
	return books, nil
}

func (r *BookRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("category_id = ?", id).Count(&n).Error
	return n > 0, err
}

// LockForUpdate loads the given books and, where the dialect supports it,
// holds row locks on them until the surrounding transaction ends. Rows are
// locked in book_id order so concurrent checkouts cannot deadlock.
func (r *BookRepository) LockForUpdate(ctx context.Context, ids []uint) (map[uint]models.Book, error) {
	q := r.db.WithContext(ctx).Where("book_id IN ?", ids).Order("book_id ASC")
	switch r.db.Dialector.Name() {
	case "postgres", "mysql":
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var books []models.Book
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return collection.KeyBy(books, func(b models.Book) uint { return b.ID }), nil
}

// DecrementStock removes n copies only if at least n are on the shelf.
// The check and the write are one statement, so concurrent callers can never
// drive stock below zero.
func (r *BookRepository) DecrementStock(ctx context.Context, bookID uint, n int) error {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE books SET stock_quantity = stock_quantity - ? WHERE book_id = ? AND stock_quantity >= ?",
		n, bookID, n,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", bookID, ErrStockConflict)
	}
	return nil
}

func (r *BookRepository) IncrementStock(ctx context.Context, bookID uint, n int) error {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE books SET stock_quantity = stock_quantity + ? WHERE book_id = ?",
		n, bookID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return nil
}

// LinkAuthorsToBook checks that the book and every author exist and then
// inserts the missing book_authors rows. Nothing is written when any ID is
// unknown.
func (r *BookRepository) LinkAuthorsToBook(ctx context.Context, bookID uint, authorIDs []uint) error {
	ids := collection.Unique(authorIDs)
	if len(ids) == 0 {
		return nil
	}

	db := r.db.WithContext(ctx)

	var books int64
	if err := db.Model(&models.Book{}).Where("book_id = ?", bookID).Count(&books).Error; err != nil {
		return err
	}
	if books == 0 {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}

	var found []uint
	if err := db.Model(&models.Author{}).Where("author_id IN ?", ids).Pluck("author_id", &found).Error; err != nil {
		return err
	}
	if len(found) != len(ids) {
		known := collection.KeyBy(found, func(id uint) uint { return id })
		missing := collection.Filter(ids, func(id uint) bool { _, ok := known[id]; return !ok })
		return fmt.Errorf("%w: %v", ErrUnknownAuthor, missing)
	}

	links := collection.Map(ids, func(id uint) models.BookAuthor {
		return models.BookAuthor{BookID: bookID, AuthorID: id}
	})
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *BookRepository) authorsFor(ctx context.Context, bookIDs []uint) (map[uint][]models.Author, error) {
	out := make(map[uint][]models.Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		BookID uint
		models.Author
	}
	err := r.db.WithContext(ctx).
		Table("authors").
		Select("book_authors.book_id, authors.author_id, authors.first_name, authors.last_name, authors.biography").
		Joins("JOIN book_authors ON book_authors.author_id = authors.author_id").
		Where("book_authors.book_id IN ?", bookIDs).
		Order("authors.last_name ASC, authors.author_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.BookID] = append(out[row.BookID], row.Author)
	}
	return out, nil
}
