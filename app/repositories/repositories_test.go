package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBook(t *testing.T, db *gorm.DB, stock int) models.Book {
	t.Helper()
	b := models.Book{Title: "Dune", Price: 9.99, StockQuantity: stock}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := testdb.Open(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	book := seedBook(t, db, 2)

	require.NoError(t, repo.DecrementStock(ctx, book.ID, 2))

	err := repo.DecrementStock(ctx, book.ID, 1)
	assert.ErrorIs(t, err, ErrStockConflict)

	got, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)

	require.NoError(t, repo.IncrementStock(ctx, book.ID, 1))
	assert.ErrorIs(t, repo.IncrementStock(ctx, 9999, 1), ErrNotFound)
}

func TestLinkAuthorsToBook(t *testing.T) {
	db := testdb.Open(t)
	repo := NewBookRepository(db)
	ctx := context.Background()
	book := seedBook(t, db, 1)

	a := models.Author{FirstName: "Frank", LastName: "Herbert"}
	require.NoError(t, db.Create(&a).Error)

	err := repo.LinkAuthorsToBook(ctx, book.ID, []uint{a.ID, 4242})
	assert.ErrorIs(t, err, ErrUnknownAuthor)

	var links int64
	require.NoError(t, db.Model(&models.BookAuthor{}).Count(&links).Error)
	assert.Zero(t, links)

	require.NoError(t, repo.LinkAuthorsToBook(ctx, book.ID, []uint{a.ID, a.ID}))
	// linking again is a no-op
	require.NoError(t, repo.LinkAuthorsToBook(ctx, book.ID, []uint{a.ID}))

	got, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, "Herbert", got.Authors[0].LastName)

	assert.ErrorIs(t, repo.LinkAuthorsToBook(ctx, 9999, []uint{a.ID}), ErrNotFound)
}

func TestCartAddIncrementsExistingRow(t *testing.T) {
	db := testdb.Open(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)
	book := seedBook(t, db, 5)

	first, err := repo.Add(ctx, user.ID, book.ID, 1, true)
	require.NoError(t, err)

	second, err := repo.Add(ctx, user.ID, book.ID, 2, true)
	require.NoError(t, err)
	assert.Equal(t, first.CartItemID, second.CartItemID)
	assert.Equal(t, 3, second.Quantity)
	require.NotNil(t, second.Book)

	// a purchase row for the same book is a separate line
	buy, err := repo.Add(ctx, user.ID, book.ID, 1, false)
	require.NoError(t, err)
	assert.NotEqual(t, first.CartItemID, buy.CartItemID)

	borrowing, err := repo.ListBorrowing(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, borrowing, 1)

	n, err := repo.DeleteBorrowing(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsBorrowing)
}

func TestLoanMarkReturnedOnlyOnce(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)
	book := seedBook(t, db, 1)

	borrowed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateBatch(ctx, []models.Loan{{
		UserID:       user.ID,
		BookID:       book.ID,
		BorrowDate:   borrowed,
		DueDate:      borrowed.AddDate(0, 0, 5),
		LoanDuration: 5,
		Status:       models.LoanActive,
	}}))

	open, err := repo.ListOpen(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	loan := open[0]

	_, err = repo.FindOwned(ctx, user.ID+1, loan.LoanID)
	assert.ErrorIs(t, err, ErrNotFound)

	returned := borrowed.AddDate(0, 0, 3)
	require.NoError(t, repo.MarkReturned(ctx, loan.LoanID, returned))
	assert.ErrorIs(t, repo.MarkReturned(ctx, loan.LoanID, returned), ErrStaleLoan)

	open, err = repo.ListOpen(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestMarkOverdueOnlyTouchesPastDueActiveLoans(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)
	book := seedBook(t, db, 3)

	today := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	loan := func(due time.Time, status string) models.Loan {
		return models.Loan{
			UserID: user.ID, BookID: book.ID,
			BorrowDate: due.AddDate(0, 0, -2), DueDate: due,
			LoanDuration: 2, Status: status,
		}
	}
	require.NoError(t, repo.CreateBatch(ctx, []models.Loan{
		loan(today.AddDate(0, 0, -1), models.LoanActive),
		loan(today, models.LoanActive),
		loan(today.AddDate(0, 0, -4), models.LoanReturned),
	}))

	n, err := repo.MarkOverdue(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.MarkOverdue(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, n)
}
