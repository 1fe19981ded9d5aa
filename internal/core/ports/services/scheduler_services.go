package services

import (
	"context"
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

// RecurringExpenseSvc defines administrator CRUD on recurring expenses.
type RecurringExpenseSvc interface {
	CreateRecurringExpense(ctx context.Context, req dto.CreateRecurringExpenseRequest, actor domain.UserID) (*domain.RecurringExpense, error)
	UpdateRecurringExpense(ctx context.Context, id string, req dto.UpdateRecurringExpenseRequest, actor domain.UserID) (*domain.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, id string, actor domain.UserID) error
	GetRecurringExpense(ctx context.Context, id string) (*domain.RecurringExpense, error)
	ListRecurringExpenses(ctx context.Context) ([]domain.RecurringExpense, error)
}

// SchedulerSvc defines the recurring charge engine.
type SchedulerSvc interface {
	// Execute charges one overdue cycle. A non-overdue expense is skipped.
	Execute(ctx context.Context, expense domain.RecurringExpense, actor domain.UserID) (*dto.ExecutionResult, error)

	// ProcessOverdue executes every overdue expense concurrently and reports failures in one summary.
	ProcessOverdue(ctx context.Context, actor domain.UserID) (*dto.OverdueSummary, error)

	// CheckUpcoming emits advance notices and returns how many were sent.
	CheckUpcoming(ctx context.Context) (int, error)

	// RunOnce is the guarded ProcessOverdue + CheckUpcoming pass; it returns ErrSchedulerBusy
	// when another pass holds the guard.
	RunOnce(ctx context.Context, actor domain.UserID) (*dto.SchedulerRunResult, error)

	// Run performs a pass at start and then every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

// SchedulerSvcFacade combines the scheduler and its administration.
type SchedulerSvcFacade interface {
	RecurringExpenseSvc
	SchedulerSvc
}
