package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/app/repositories"
	"gorm.io/gorm"
)

type CreateBookInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" validate:"gte=0"`
	StockQuantity   int     `json:"stock_quantity" validate:"gte=0"`
	PublicationDate string  `json:"publication_date" validate:"omitempty,datetime=2006-01-02"`
	Publisher       string  `json:"publisher" validate:"max=255"`
	CoverImageURL   string  `json:"cover_image_url" validate:"omitempty,url"`
	CategoryID      *uint   `json:"category_id"`
	AuthorIDs       []uint  `json:"author_ids"`
}

type BookService struct {
	db    *gorm.DB
	books *repositories.BookRepository
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db, books: repositories.NewBookRepository(db)}
}

// Create stores a book and links its authors in one transaction. Unknown
// category or author IDs abort the whole insert.
func (s *BookService) Create(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	book := models.Book{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Publisher:     in.Publisher,
		CoverImageURL: in.CoverImageURL,
		CategoryID:    in.CategoryID,
	}
	if in.PublicationDate != "" {
		published, err := time.Parse(DateLayout, in.PublicationDate)
		if err != nil {
			return nil, fmt.Errorf("parse publication date: %w", err)
		}
		book.PublicationDate = &published
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		books := s.books.WithTx(tx)

		if in.CategoryID != nil {
			ok, err := books.CategoryExists(ctx, *in.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", ErrUnknownCategory, *in.CategoryID)
			}
		}

		if err := books.Create(ctx, &book); err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return books.LinkAuthorsToBook(ctx, book.ID, in.AuthorIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, book.ID)
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	return book, nil
}
