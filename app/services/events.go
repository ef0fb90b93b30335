package services

import "time"

// Event names fired on the application bus.
const (
	EventLoanCheckedOut      = "loan.checked_out"
	EventLoanCheckoutFailed  = "loan.checkout_failed"
	EventLoanReturned        = "loan.returned"
	EventLoansMarkedOverdue  = "loan.marked_overdue"
	EventCatalogLookupFailed = "catalog.lookup_failed"
)

type LoanCheckedOut struct {
	UserID  uint
	Units   int
	DueDate time.Time
}

type LoanCheckoutFailed struct {
	UserID uint
	Reason string // invalid_duration | empty_cart | insufficient_stock | error
}

type LoanReturned struct {
	UserID      uint
	LoanID      uint
	BookID      uint
	DaysOverdue int
}

type LoansMarkedOverdue struct {
	Count int64
}

type CatalogLookupFailed struct {
	Op  string
	Err error
}
