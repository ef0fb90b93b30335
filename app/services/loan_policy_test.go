package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLoanPolicyValidate(t *testing.T) {
	p := NewLoanPolicy([]int{14, 2, 5, 5})
	assert.Equal(t, []int{2, 5, 14}, p.Durations)

	for _, d := range []int{2, 5, 14} {
		assert.NoError(t, p.Validate(d))
	}
	for _, d := range []int{-1, 0, 3, 7, 15} {
		err := p.Validate(d)
		assert.ErrorIs(t, err, ErrInvalidDuration)
		assert.ErrorContains(t, err, "2, 5, 14")
	}
}

func TestDueDateAddsCalendarDays(t *testing.T) {
	p := NewLoanPolicy(nil)
	borrow := time.Date(2025, 2, 27, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, day("2025-03-01"), p.DueDate(borrow, 2))
	assert.Equal(t, day("2025-03-04"), p.DueDate(borrow, 5))
	assert.Equal(t, day("2025-03-13"), p.DueDate(borrow, 14))
}

func TestCalendarDayKeepsLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	local := time.Date(2025, 6, 1, 0, 30, 0, 0, tokyo)

	assert.Equal(t, day("2025-06-01"), CalendarDay(local))
}

func TestTodayUsesUTC(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 6, 1, 23, 30, 0, 0, time.FixedZone("X", -2*3600)) }
	assert.Equal(t, day("2025-06-02"), Today(clock))
}

func TestClassify(t *testing.T) {
	today := day("2025-05-10")

	cases := []struct {
		due     string
		status  string
		tier    Tier
		days    int
		message string
	}{
		{"2025-05-07", "overdue", TierDanger, -3, "Overdue by 3 days. Please return as soon as possible."},
		{"2025-05-09", "overdue", TierDanger, -1, "Overdue by 1 day. Please return as soon as possible."},
		{"2025-05-10", "active", TierWarning, 0, "Due today. Please return today to avoid a late penalty."},
		{"2025-05-11", "active", TierUrgent, 1, "Due in 1 day."},
		{"2025-05-12", "active", TierUrgent, 2, "Due in 2 days."},
		{"2025-05-13", "active", TierNormal, 3, "3 days remaining."},
		{"2025-05-24", "active", TierNormal, 14, "14 days remaining."},
	}
	for _, tc := range cases {
		c := Classify(day(tc.due), today)
		assert.Equal(t, Classification{Status: tc.status, Tier: tc.tier, DaysRemaining: tc.days, Message: tc.message}, c, tc.due)
	}
}

func TestDaysOverdueAndPenaltyNote(t *testing.T) {
	due := day("2025-05-10")

	assert.Equal(t, 0, DaysOverdue(due, day("2025-05-08")))
	assert.Equal(t, 0, DaysOverdue(due, due))
	assert.Equal(t, 4, DaysOverdue(due, day("2025-05-14")))

	assert.Empty(t, PenaltyNote(0))
	assert.Equal(t, "Book was returned 1 day overdue. Penalty may apply.", PenaltyNote(1))
	assert.Equal(t, "Book was returned 4 days overdue. Penalty may apply.", PenaltyNote(4))
}
