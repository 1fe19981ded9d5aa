package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextExecution(t *testing.T) {
	tests := []struct {
		name string
		day  int
		from time.Time
		want time.Time
	}{
		{"month-end clamp", 31, date(2024, 4, 10), date(2024, 4, 30)},
		{"rolls to next month", 15, date(2024, 4, 20), date(2024, 5, 15)},
		{"same day rolls over", 10, date(2024, 4, 10), date(2024, 5, 10)},
		{"later that day rolls over", 10, date(2024, 4, 10).Add(9 * time.Hour), date(2024, 5, 10)},
		{"february leap year", 30, date(2024, 2, 1), date(2024, 2, 29)},
		{"february common year", 29, date(2023, 2, 28), date(2023, 3, 29)},
		{"clamp after advancing", 31, date(2024, 3, 31), date(2024, 4, 30)},
		{"year boundary", 5, date(2024, 12, 20), date(2025, 1, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NextExecution(tt.day, tt.from))
		})
	}
}

func TestAdvancePast(t *testing.T) {
	now := date(2024, 7, 3)

	t.Run("several missed cycles", func(t *testing.T) {
		got := domain.AdvancePast(1, date(2024, 4, 1), now)
		assert.Equal(t, date(2024, 8, 1), got)
	})

	t.Run("single cycle", func(t *testing.T) {
		got := domain.AdvancePast(3, date(2024, 7, 3), now)
		assert.Equal(t, date(2024, 8, 3), got)
	})
}

func TestIsOverdue(t *testing.T) {
	now := date(2024, 5, 15).Add(8 * time.Hour)
	due := date(2024, 5, 15)
	earlier := date(2024, 4, 15)

	tests := []struct {
		name    string
		expense domain.RecurringExpense
		want    bool
	}{
		{"due and never run", domain.RecurringExpense{Active: true, NextExecution: due}, true},
		{"due after previous cycle", domain.RecurringExpense{Active: true, NextExecution: due, LastExecution: &earlier}, true},
		{"inactive", domain.RecurringExpense{Active: false, NextExecution: due}, false},
		{"not scheduled", domain.RecurringExpense{Active: true}, false},
		{"in the future", domain.RecurringExpense{Active: true, NextExecution: now.Add(time.Hour)}, false},
		{"already executed", domain.RecurringExpense{Active: true, NextExecution: due, LastExecution: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsOverdue(tt.expense, now))
		})
	}
}

func TestUpcomingNoticeDue(t *testing.T) {
	next := date(2024, 6, 10)
	base := domain.RecurringExpense{Active: true, NotifyBefore: true, DaysNotice: 3, NextExecution: next}
	notifyAt := date(2024, 6, 7)
	recent := notifyAt.Add(-2 * time.Hour)
	stale := notifyAt.Add(-48 * time.Hour)

	tests := []struct {
		name   string
		mutate func(e *domain.RecurringExpense)
		now    time.Time
		want   bool
	}{
		{"exactly at notify time", nil, notifyAt, true},
		{"inside window before", nil, notifyAt.Add(-11 * time.Hour), true},
		{"inside window after", nil, notifyAt.Add(11 * time.Hour), true},
		{"outside window", nil, notifyAt.Add(13 * time.Hour), false},
		{"notify disabled", func(e *domain.RecurringExpense) { e.NotifyBefore = false }, notifyAt, false},
		{"inactive", func(e *domain.RecurringExpense) { e.Active = false }, notifyAt, false},
		{"notified recently", func(e *domain.RecurringExpense) { e.LastNotified = &recent }, notifyAt, false},
		{"notified long ago", func(e *domain.RecurringExpense) { e.LastNotified = &stale }, notifyAt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			if tt.mutate != nil {
				tt.mutate(&e)
			}
			assert.Equal(t, tt.want, domain.UpcomingNoticeDue(e, tt.now))
		})
	}
}
