package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"gorm.io/gorm"
)

var openStatuses = []string{models.LoanActive, models.LoanOverdue}

// LoanRepository handles loan rows. Loans are never deleted.
type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *LoanRepository) WithTx(tx *gorm.DB) *LoanRepository {
	return &LoanRepository{db: tx}
}

func (r *LoanRepository) CreateBatch(ctx context.Context, loans []models.Loan) error {
	if len(loans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Book").CreateInBatches(&loans, 100).Error
}

// FindOwned returns the loan only if it belongs to userID. A missing loan
// and someone else's loan both yield ErrNotFound.
func (r *LoanRepository) FindOwned(ctx context.Context, userID, loanID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Preload("Book").
		Where("loan_id = ? AND user_id = ?", loanID, userID).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &loan, err
}

// MarkReturned flips an open loan to returned. ErrStaleLoan means another
// writer closed it first.
func (r *LoanRepository) MarkReturned(ctx context.Context, loanID uint, returnDate time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("loan_id = ? AND status IN ?", loanID, openStatuses).
		Updates(map[string]interface{}{
			"status":      models.LoanReturned,
			"return_date": returnDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleLoan
	}
	return nil
}

// ListOpen returns the user's active and overdue loans, earliest due first.
func (r *LoanRepository) ListOpen(ctx context.Context, userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ? AND status IN ?", userID, openStatuses).
		Order("due_date ASC, loan_id ASC").
		Find(&loans).Error
	return loans, err
}

// MarkOverdue flips every active loan due before today to overdue and
// returns how many changed.
func (r *LoanRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ? AND due_date < ?", models.LoanActive, today).
		Update("status", models.LoanOverdue)
	return res.RowsAffected, res.Error
}
