package models

import "time"

const (
	LoanActive    = "active"
	LoanOverdue   = "overdue"
	LoanReturned  = "returned"
	LoanCancelled = "cancelled"
)

// Loan is one borrowed copy. DueDate is fixed at creation; only the return
// transition mutates a loan afterwards.
type Loan struct {
	LoanID       uint       `gorm:"primaryKey;column:loan_id" json:"loan_id"`
	UserID       uint       `gorm:"not null;index:idx_loans_user_status" json:"user_id"`
	BookID       uint       `gorm:"not null;index" json:"book_id"`
	Book         *Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	BorrowDate   time.Time  `gorm:"type:date;not null" json:"borrow_date"`
	DueDate      time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	ReturnDate   *time.Time `gorm:"type:date" json:"return_date"`
	LoanDuration int        `gorm:"not null" json:"loan_duration"`
	Status       string     `gorm:"size:20;not null;default:active;index:idx_loans_user_status;check:chk_loans_status,status IN ('active','overdue','returned','cancelled')" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsOpen reports whether the copy is still out.
func (l Loan) IsOpen() bool {
	return l.Status == LoanActive || l.Status == LoanOverdue
}
