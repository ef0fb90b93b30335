package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/internal/testdb"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	bus   *event.Bus
	now   time.Time
	loans *LoanService
	seq   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:  testdb.Open(t),
		bus: event.New(),
		now: time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC),
	}
	f.loans = NewLoanService(f.db, NewLoanPolicy([]int{2, 5, 14}), f.clock, f.bus)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) at(date string) {
	f.now = day(date).Add(9 * time.Hour)
}

func (f *fixture) user(t *testing.T) uint {
	t.Helper()
	f.seq++
	u := models.User{
		Name:     fmt.Sprintf("Reader %d", f.seq),
		Email:    fmt.Sprintf("reader%d@example.com", f.seq),
		Password: "x",
		Role:     models.RoleCustomer,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func (f *fixture) book(t *testing.T, title string, stock int) uint {
	t.Helper()
	b := models.Book{Title: title, Price: 10, StockQuantity: stock}
	require.NoError(t, f.db.Create(&b).Error)
	return b.ID
}

func (f *fixture) cart(t *testing.T, userID, bookID uint, qty int, borrowing bool) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.CartItem{
		UserID: userID, BookID: bookID, Quantity: qty, IsBorrowing: borrowing,
	}).Error)
}

func (f *fixture) stock(t *testing.T, bookID uint) int {
	t.Helper()
	var b models.Book
	require.NoError(t, f.db.First(&b, "book_id = ?", bookID).Error)
	return b.StockQuantity
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (f *fixture) userLoans(t *testing.T, userID uint) []models.Loan {
	t.Helper()
	var loans []models.Loan
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("loan_id").Find(&loans).Error)
	return loans
}

func itoa(id uint) string { return fmt.Sprint(id) }
