package dto

import (
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringExpenseRequest defines a new monthly charge against Casa.
type CreateRecurringExpenseRequest struct {
	Name         string          `json:"name" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category" binding:"required"`
	DayOfMonth   int             `json:"dayOfMonth" binding:"required,min=1,max=31"`
	Active       bool            `json:"active"`
	NotifyBefore bool            `json:"notifyBefore"`
	DaysNotice   int             `json:"daysNotice"`
}

// UpdateRecurringExpenseRequest edits a recurring expense; nil fields are left untouched.
type UpdateRecurringExpenseRequest struct {
	Name         *string          `json:"name"`
	Amount       *decimal.Decimal `json:"amount"`
	Category     *string          `json:"category"`
	DayOfMonth   *int             `json:"dayOfMonth"`
	Active       *bool            `json:"active"`
	NotifyBefore *bool            `json:"notifyBefore"`
	DaysNotice   *int             `json:"daysNotice"`
}

// ExecutionStatus is the outcome of one scheduled charge.
type ExecutionStatus string

const (
	ExecutionExecuted ExecutionStatus = "executed"
	ExecutionSkipped  ExecutionStatus = "skipped"
	ExecutionFailed   ExecutionStatus = "failed"
)

// ExecutionResult reports what Execute did with one expense.
type ExecutionResult struct {
	ExpenseID     string                   `json:"expenseID"`
	Name          string                   `json:"name"`
	Amount        decimal.Decimal          `json:"amount"`
	Status        ExecutionStatus          `json:"status"`
	TransactionID string                   `json:"transactionID,omitempty"`
	Error         string                   `json:"error,omitempty"`
	Expense       *domain.RecurringExpense `json:"expense,omitempty"`
}

// OverdueSummary aggregates a ProcessOverdue pass.
type OverdueSummary struct {
	Executed []ExecutionResult `json:"executed"`
	Failed   []ExecutionResult `json:"failed"`
	Skipped  []ExecutionResult `json:"skipped"`
}

// SchedulerRunResult is the outcome of one guarded scheduler pass.
type SchedulerRunResult struct {
	Overdue          OverdueSummary `json:"overdue"`
	UpcomingNotified int            `json:"upcomingNotified"`
}
