package services

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shashiranjanraj/bookstore/app/models"
)

// DateLayout is the wire format of every calendar date the API returns.
const DateLayout = "2006-01-02"

// Tier is the severity of a loan reminder.
type Tier string

const (
	TierNormal  Tier = "NORMAL"
	TierUrgent  Tier = "URGENT"
	TierWarning Tier = "WARNING"
	TierDanger  Tier = "DANGER"
)

// Clock returns the current instant. Services take one so tests can pin
// "today".
type Clock func() time.Time

// LoanPolicy is the set of loan lengths, in days, a borrower may choose.
type LoanPolicy struct {
	Durations []int
}

func NewLoanPolicy(durations []int) LoanPolicy {
	if len(durations) == 0 {
		durations = []int{2, 5, 14}
	}
	sorted := slices.Clone(durations)
	slices.Sort(sorted)
	return LoanPolicy{Durations: slices.Compact(sorted)}
}

// Validate rejects any duration outside the policy.
func (p LoanPolicy) Validate(days int) error {
	if slices.Contains(p.Durations, days) {
		return nil
	}
	return fmt.Errorf("%w: must be one of %s days", ErrInvalidDuration, p.describe())
}

func (p LoanPolicy) describe() string {
	parts := make([]string, len(p.Durations))
	for i, d := range p.Durations {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, ", ")
}

// DueDate is borrow + days calendar days.
func (p LoanPolicy) DueDate(borrow time.Time, days int) time.Time {
	return CalendarDay(borrow).AddDate(0, 0, days)
}

// Today is the current calendar day in UTC.
func Today(clock Clock) time.Time {
	return now.With(clock().UTC()).BeginningOfDay()
}

// CalendarDay strips the time of day from t, keeping the date t names in its
// own location, and returns that date at UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween is the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(CalendarDay(b).Sub(CalendarDay(a)).Hours() / 24))
}

// Classification is the derived state of an open loan on a given day.
type Classification struct {
	Status        string
	Tier          Tier
	DaysRemaining int
	Message       string
}

// Classify derives status, tier and message for a loan due on dueDate.
// Both the active-loan listing and the reminder feed use it.
func Classify(dueDate, today time.Time) Classification {
	days := DaysBetween(today, dueDate)
	c := Classification{Status: models.LoanActive, DaysRemaining: days}

	switch {
	case days < 0:
		c.Status = models.LoanOverdue
		c.Tier = TierDanger
		c.Message = fmt.Sprintf("Overdue by %d %s. Please return as soon as possible.", -days, plural(-days, "day"))
	case days == 0:
		c.Tier = TierWarning
		c.Message = "Due today. Please return today to avoid a late penalty."
	case days <= 2:
		c.Tier = TierUrgent
		c.Message = fmt.Sprintf("Due in %d %s.", days, plural(days, "day"))
	default:
		c.Tier = TierNormal
		c.Message = fmt.Sprintf("%d days remaining.", days)
	}
	return c
}

// DaysOverdue is how many days after dueDate the copy came back; never
// negative.
func DaysOverdue(dueDate, returned time.Time) int {
	return max(DaysBetween(dueDate, returned), 0)
}

// PenaltyNote is the advisory text attached to a late return.
func PenaltyNote(daysOverdue int) string {
	if daysOverdue <= 0 {
		return ""
	}
	return fmt.Sprintf("Book was returned %d %s overdue. Penalty may apply.", daysOverdue, plural(daysOverdue, "day"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
