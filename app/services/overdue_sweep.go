package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/bookstore/app/repositories"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"gorm.io/gorm"
)

// OverdueSweeper persists the overdue status of loans past their due date so
// reports can filter by status. Read paths never rely on it; they classify
// from the due date.
type OverdueSweeper struct {
	loans  *repositories.LoanRepository
	clock  Clock
	events *event.Bus
}

func NewOverdueSweeper(db *gorm.DB, clock Clock, events *event.Bus) *OverdueSweeper {
	if clock == nil {
		clock = time.Now
	}
	return &OverdueSweeper{loans: repositories.NewLoanRepository(db), clock: clock, events: events}
}

// Sweep marks every active loan due before today as overdue.
func (s *OverdueSweeper) Sweep(ctx context.Context) (int64, error) {
	today := Today(s.clock)

	n, err := s.loans.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}

	logger.WithCtx(ctx).Info("overdue sweep finished", "marked", n, "today", today.Format(DateLayout))
	if n > 0 {
		s.events.Fire(EventLoansMarkedOverdue, LoansMarkedOverdue{Count: n})
	}
	return n, nil
}
