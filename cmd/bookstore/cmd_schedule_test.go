package main

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/internal/testdb"
	"github.com/shashiranjanraj/bookstore/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOverdueCountsMarkedLoans(t *testing.T) {
	db := testdb.Open(t)

	user := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	book := models.Book{Title: "Dune", Price: 9.99, StockQuantity: 1}
	require.NoError(t, db.Create(&book).Error)

	borrowed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Loan{
		UserID: user.ID, BookID: book.ID,
		BorrowDate: borrowed, DueDate: borrowed.AddDate(0, 0, 2),
		LoanDuration: 2, Status: models.LoanActive,
	}).Error)

	before := testutil.ToFloat64(metrics.OverdueMarked)

	n, err := sweepOverdue(context.Background(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OverdueMarked))
}
