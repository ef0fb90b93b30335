package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/app/repositories"
	"github.com/shashiranjanraj/bookstore/pkg/collection"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"gorm.io/gorm"
)

// CheckoutResult summarises a committed checkout.
type CheckoutResult struct {
	LoanCount  int    `json:"loan_count"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
}

// ReturnResult summarises a committed return.
type ReturnResult struct {
	LoanID      uint   `json:"loan_id"`
	ReturnDate  string `json:"return_date"`
	DaysOverdue int    `json:"days_overdue"`
	PenaltyNote string `json:"penalty_note"`
}

// LoanView is an open loan with its derived classification.
type LoanView struct {
	LoanID         uint   `json:"loan_id"`
	BookID         uint   `json:"book_id"`
	Title          string `json:"title"`
	BorrowDate     string `json:"borrow_date"`
	DueDate        string `json:"due_date"`
	LoanDuration   int    `json:"loan_duration"`
	Status         string `json:"status"`
	DaysRemaining  int    `json:"days_remaining"`
	AlertType      Tier   `json:"alert_type"`
	DisplayMessage string `json:"display_message"`
}

// ReminderBatch groups the open loans of one checkout: same borrow date and
// same duration.
type ReminderBatch struct {
	BorrowDate     string   `json:"borrow_date"`
	DueDate        string   `json:"due_date"`
	LoanDuration   int      `json:"loan_duration"`
	DaysRemaining  int      `json:"days_remaining"`
	Books          []string `json:"books"`
	LoanIDs        []uint   `json:"loan_ids"`
	AlertType      Tier     `json:"alert_type"`
	DisplayMessage string   `json:"display_message"`
}

// LoanService turns borrow carts into loans, takes copies back and derives
// the reminder feed.
type LoanService struct {
	db     *gorm.DB
	books  *repositories.BookRepository
	carts  *repositories.CartRepository
	loans  *repositories.LoanRepository
	policy LoanPolicy
	clock  Clock
	events *event.Bus
}

func NewLoanService(db *gorm.DB, policy LoanPolicy, clock Clock, events *event.Bus) *LoanService {
	if clock == nil {
		clock = time.Now
	}
	return &LoanService{
		db:     db,
		books:  repositories.NewBookRepository(db),
		carts:  repositories.NewCartRepository(db),
		loans:  repositories.NewLoanRepository(db),
		policy: policy,
		clock:  clock,
		events: events,
	}
}

func (s *LoanService) Policy() LoanPolicy {
	return s.policy
}

// Checkout converts every borrow-flagged cart row of the user into one loan
// per copy, takes the copies off the shelf and empties the borrow cart, all
// in one transaction. Nothing is written unless every book can be covered.
func (s *LoanService) Checkout(ctx context.Context, userID uint, duration int) (*CheckoutResult, error) {
	log := logger.WithCtx(ctx)

	if err := s.policy.Validate(duration); err != nil {
		s.checkoutFailed(userID, err)
		return nil, err
	}

	today := Today(s.clock)
	due := s.policy.DueDate(today, duration)
	var units int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		books, carts, loans := s.books.WithTx(tx), s.carts.WithTx(tx), s.loans.WithTx(tx)

		items, err := carts.ListBorrowing(ctx, userID)
		if err != nil {
			return fmt.Errorf("load borrow cart: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyBorrowCart
		}

		ids := collection.Unique(collection.Map(items, func(i models.CartItem) uint { return i.BookID }))
		shelf, err := books.LockForUpdate(ctx, ids)
		if err != nil {
			return fmt.Errorf("lock books: %w", err)
		}

		for _, item := range items {
			book, ok := shelf[item.BookID]
			if !ok {
				return fmt.Errorf("%w: book %d", ErrBookNotFound, item.BookID)
			}
			if book.StockQuantity < item.Quantity {
				return &InsufficientStockError{BookID: item.BookID, Requested: item.Quantity, Available: book.StockQuantity}
			}
		}

		var rows []models.Loan
		for _, item := range items {
			for n := 0; n < item.Quantity; n++ {
				rows = append(rows, models.Loan{
					UserID:       userID,
					BookID:       item.BookID,
					BorrowDate:   today,
					DueDate:      due,
					LoanDuration: duration,
					Status:       models.LoanActive,
				})
			}
		}
		if err := loans.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("create loans: %w", err)
		}

		for _, item := range items {
			err := books.DecrementStock(ctx, item.BookID, item.Quantity)
			if errors.Is(err, repositories.ErrStockConflict) {
				return &InsufficientStockError{BookID: item.BookID, Requested: item.Quantity}
			}
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		if _, err := carts.DeleteBorrowing(ctx, userID); err != nil {
			return fmt.Errorf("purge borrow cart: %w", err)
		}

		units = len(rows)
		return nil
	})
	if err != nil {
		s.checkoutFailed(userID, err)
		log.Warn("loan checkout rolled back", "user_id", userID, "duration", duration, "error", err)
		return nil, err
	}

	log.Info("loan checkout committed", "user_id", userID, "loans", units, "due_date", due.Format(DateLayout))
	s.events.Fire(EventLoanCheckedOut, LoanCheckedOut{UserID: userID, Units: units, DueDate: due})

	return &CheckoutResult{
		LoanCount:  units,
		BorrowDate: today.Format(DateLayout),
		DueDate:    due.Format(DateLayout),
	}, nil
}

func (s *LoanService) checkoutFailed(userID uint, err error) {
	s.events.Fire(EventLoanCheckoutFailed, LoanCheckoutFailed{UserID: userID, Reason: checkoutFailureReason(err)})
}

func checkoutFailureReason(err error) string {
	var stock *InsufficientStockError
	switch {
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrEmptyBorrowCart):
		return "empty_cart"
	case errors.As(err, &stock):
		return "insufficient_stock"
	default:
		return "error"
	}
}

// Return closes one of the user's open loans and puts the copy back on the
// shelf in the same transaction.
func (s *LoanService) Return(ctx context.Context, userID, loanID uint) (*ReturnResult, error) {
	today := Today(s.clock)
	var result ReturnResult
	var bookID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		books, loans := s.books.WithTx(tx), s.loans.WithTx(tx)

		loan, err := loans.FindOwned(ctx, userID, loanID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLoanNotFound
		}
		if err != nil {
			return fmt.Errorf("load loan: %w", err)
		}

		switch loan.Status {
		case models.LoanReturned:
			return ErrAlreadyReturned
		case models.LoanCancelled:
			return ErrLoanNotReturnable
		}

		err = loans.MarkReturned(ctx, loan.LoanID, today)
		if errors.Is(err, repositories.ErrStaleLoan) {
			return ErrAlreadyReturned
		}
		if err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}

		if err := books.IncrementStock(ctx, loan.BookID, 1); err != nil {
			return fmt.Errorf("restock book: %w", err)
		}

		days := DaysOverdue(loan.DueDate, today)
		bookID = loan.BookID
		result = ReturnResult{
			LoanID:      loan.LoanID,
			ReturnDate:  today.Format(DateLayout),
			DaysOverdue: days,
			PenaltyNote: PenaltyNote(days),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("loan returned", "user_id", userID, "loan_id", loanID, "days_overdue", result.DaysOverdue)
	s.events.Fire(EventLoanReturned, LoanReturned{UserID: userID, LoanID: loanID, BookID: bookID, DaysOverdue: result.DaysOverdue})
	return &result, nil
}

// ActiveLoans lists the user's open loans, earliest due first.
func (s *LoanService) ActiveLoans(ctx context.Context, userID uint) ([]LoanView, error) {
	loans, err := s.loans.ListOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}

	today := Today(s.clock)
	return collection.Map(loans, func(l models.Loan) LoanView {
		c := Classify(l.DueDate, today)
		return LoanView{
			LoanID:         l.LoanID,
			BookID:         l.BookID,
			Title:          titleOf(l),
			BorrowDate:     CalendarDay(l.BorrowDate).Format(DateLayout),
			DueDate:        CalendarDay(l.DueDate).Format(DateLayout),
			LoanDuration:   l.LoanDuration,
			Status:         c.Status,
			DaysRemaining:  c.DaysRemaining,
			AlertType:      c.Tier,
			DisplayMessage: c.Message,
		}
	}), nil
}

type batchKey struct {
	borrow   string
	duration int
}

// Reminders groups the user's open loans by checkout batch and orders the
// batches most urgent first. It is recomputed from the current date on
// every call.
func (s *LoanService) Reminders(ctx context.Context, userID uint) ([]ReminderBatch, error) {
	loans, err := s.loans.ListOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}

	today := Today(s.clock)
	keys, groups := collection.GroupBy(loans, func(l models.Loan) batchKey {
		return batchKey{borrow: CalendarDay(l.BorrowDate).Format(DateLayout), duration: l.LoanDuration}
	})

	batches := make([]ReminderBatch, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		due := CalendarDay(group[0].DueDate)
		c := Classify(due, today)

		batches = append(batches, ReminderBatch{
			BorrowDate:     k.borrow,
			DueDate:        due.Format(DateLayout),
			LoanDuration:   k.duration,
			DaysRemaining:  c.DaysRemaining,
			Books:          collection.Map(group, titleOf),
			LoanIDs:        collection.Map(group, func(l models.Loan) uint { return l.LoanID }),
			AlertType:      c.Tier,
			DisplayMessage: c.Message,
		})
	}

	return collection.SortBy(batches, func(a, b ReminderBatch) bool {
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}
		if a.BorrowDate != b.BorrowDate {
			return a.BorrowDate < b.BorrowDate
		}
		return a.LoanDuration < b.LoanDuration
	}), nil
}

func titleOf(l models.Loan) string {
	if l.Book == nil {
		return fmt.Sprintf("Book #%d", l.BookID)
	}
	return l.Book.Title
}
