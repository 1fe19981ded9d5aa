package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringExpensesPrefix is the store prefix of recurring expenses.
const RecurringExpensesPrefix = "recurring_expenses"

// RecurringExpense is a monthly charge against Casa.
// NextExecution and LastExecution are only moved by the scheduler.
type RecurringExpense struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	DayOfMonth    int             `json:"dayOfMonth"`
	Active        bool            `json:"active"`
	NextExecution time.Time       `json:"nextExecution"`
	LastExecution *time.Time      `json:"lastExecution,omitempty"`
	NotifyBefore  bool            `json:"notifyBefore"`
	DaysNotice    int             `json:"daysNotice"`
	LastNotified  *time.Time      `json:"lastNotified,omitempty"`
	AuditFields
}

// RecurringExpensePath is the store location of a recurring expense.
func RecurringExpensePath(id string) string { return RecurringExpensesPrefix + "/" + id }

// NextExecution returns the first date strictly after from that falls on dayOfMonth,
// clamping to the last day of months that are too short.
func NextExecution(dayOfMonth int, from time.Time) time.Time {
	y, m, _ := from.Date()
	candidate := dayInMonth(y, m, dayOfMonth, from.Location())
	if !candidate.After(from) {
		candidate = dayInMonth(y, m+1, dayOfMonth, from.Location())
	}
	return candidate
}

func dayInMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

// AdvancePast applies NextExecution from scheduled until the result is after now.
// It always advances at least once.
func AdvancePast(dayOfMonth int, scheduled, now time.Time) time.Time {
	next := NextExecution(dayOfMonth, scheduled)
	for !next.After(now) {
		next = NextExecution(dayOfMonth, next)
	}
	return next
}

// IsOverdue reports whether the scheduled cycle has come due without being executed.
func IsOverdue(e RecurringExpense, now time.Time) bool {
	if !e.Active || e.NextExecution.IsZero() {
		return false
	}
	if e.LastExecution != nil && !e.LastExecution.Before(e.NextExecution) {
		return false
	}
	return !e.NextExecution.After(now)
}

const (
	upcomingWindow   = 12 * time.Hour
	renotifyInterval = 24 * time.Hour
)

// UpcomingNoticeDue reports whether an "upcoming payment" notice should go out now.
func UpcomingNoticeDue(e RecurringExpense, now time.Time) bool {
	if !e.Active || !e.NotifyBefore || e.NextExecution.IsZero() {
		return false
	}
	notifyAt := e.NextExecution.AddDate(0, 0, -e.DaysNotice)
	if now.Before(notifyAt.Add(-upcomingWindow)) || now.After(notifyAt.Add(upcomingWindow)) {
		return false
	}
	return e.LastNotified == nil || now.Sub(*e.LastNotified) > renotifyInterval
}
