package services

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueSweepMarksOnlyPastDueActiveLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.user(t)
	dune := f.book(t, "Dune", 5)
	emma := f.book(t, "Emma", 5)

	f.at("2025-05-01")
	f.cart(t, user, dune, 1, true)
	_, err := f.loans.Checkout(ctx, user, 2)
	require.NoError(t, err)

	f.at("2025-05-08")
	f.cart(t, user, emma, 1, true)
	_, err = f.loans.Checkout(ctx, user, 2)
	require.NoError(t, err)

	var marked []int64
	f.bus.Listen(EventLoansMarkedOverdue, func(p interface{}) { marked = append(marked, p.(LoansMarkedOverdue).Count) })

	f.at("2025-05-10")
	sweeper := NewOverdueSweeper(f.db, f.clock, f.bus)

	n, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []int64{1}, marked)

	loans := f.userLoans(t, user)
	assert.Equal(t, models.LoanOverdue, loans[0].Status)
	assert.Equal(t, models.LoanActive, loans[1].Status)

	views, err := f.loans.ActiveLoans(ctx, user)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	res, err := f.loans.Return(ctx, user, loans[0].LoanID)
	require.NoError(t, err)
	assert.Equal(t, 7, res.DaysOverdue)
	assert.Equal(t, 5, f.stock(t, dune))
}
