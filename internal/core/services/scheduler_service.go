package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
)

// ErrSchedulerBusy is returned by RunOnce when another pass holds the guard.
var ErrSchedulerBusy = fmt.Errorf("%w: scheduler pass already running", apperrors.ErrConflict)

const (
	schedulerLockKey     = "casa-ledger:scheduler"
	defaultSchedulerLock = 5 * time.Minute
	overdueConcurrency   = 4
	maxDaysNotice        = 15
)

// SchedulerConfig tunes the scheduler guard.
type SchedulerConfig struct {
	// Locker extends the in-process guard across processes; nil keeps it local.
	Locker  portssvc.Locker
	LockTTL time.Duration
}

// schedulerService charges recurring expenses against Casa.
type schedulerService struct {
	*ledgerCore
	guard   sync.Mutex
	locker  portssvc.Locker
	lockTTL time.Duration
}

func newSchedulerService(core *ledgerCore, cfg SchedulerConfig) *schedulerService {
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = defaultSchedulerLock
	}
	return &schedulerService{ledgerCore: core, locker: cfg.Locker, lockTTL: ttl}
}

var _ portssvc.SchedulerSvcFacade = (*schedulerService)(nil)

// --- administration ---

func (s *schedulerService) CreateRecurringExpense(ctx context.Context, req dto.CreateRecurringExpenseRequest, actor domain.UserID) (*domain.RecurringExpense, error) {
	now := s.Now()
	expense := domain.RecurringExpense{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Amount:       req.Amount,
		Category:     strings.TrimSpace(req.Category),
		DayOfMonth:   req.DayOfMonth,
		Active:       req.Active,
		NotifyBefore: req.NotifyBefore,
		DaysNotice:   req.DaysNotice,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := validateRecurringExpense(expense); err != nil {
		return nil, err
	}
	expense.NextExecution = domain.NextExecution(expense.DayOfMonth, now)

	path := domain.RecurringExpensePath(expense.ID)
	m := newMutation()
	m.batch.Put(path, expense).ExpectAbsent(path)
	if err := s.store.Commit(ctx, m.batch); err != nil {
		s.LogError(ctx, err, "Failed to create recurring expense")
		return nil, err
	}
	s.LogInfo(ctx, "Recurring expense created", slog.String("expense_id", expense.ID), slog.Time("next_execution", expense.NextExecution))
	return &expense, nil
}

// UpdateRecurringExpense applies the non-nil fields. Activating an expense or moving its
// day recomputes the next execution from now; otherwise the schedule is left alone.
func (s *schedulerService) UpdateRecurringExpense(ctx context.Context, id string, req dto.UpdateRecurringExpenseRequest, actor domain.UserID) (*domain.RecurringExpense, error) {
	m, err := s.commit(ctx, nil, func(ctx context.Context) (*mutation, error) {
		expense, raw, err := s.readExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		wasActive, oldDay := expense.Active, expense.DayOfMonth

		if req.Name != nil {
			expense.Name = strings.TrimSpace(*req.Name)
		}
		if req.Amount != nil {
			expense.Amount = *req.Amount
		}
		if req.Category != nil {
			expense.Category = strings.TrimSpace(*req.Category)
		}
		if req.DayOfMonth != nil {
			expense.DayOfMonth = *req.DayOfMonth
		}
		if req.Active != nil {
			expense.Active = *req.Active
		}
		if req.NotifyBefore != nil {
			expense.NotifyBefore = *req.NotifyBefore
		}
		if req.DaysNotice != nil {
			expense.DaysNotice = *req.DaysNotice
		}
		if err := validateRecurringExpense(*expense); err != nil {
			return nil, err
		}

		now := s.Now()
		if (expense.Active && !wasActive) || expense.DayOfMonth != oldDay {
			expense.NextExecution = domain.NextExecution(expense.DayOfMonth, now)
		}
		expense.LastUpdatedAt = now
		expense.LastUpdatedBy = actor

		m := newMutation()
		m.batch.Put(domain.RecurringExpensePath(id), expense).ExpectValue(domain.RecurringExpensePath(id), raw)
		m.expense = expense
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Recurring expense updated", slog.String("expense_id", id))
	return m.expense, nil
}

func (s *schedulerService) DeleteRecurringExpense(ctx context.Context, id string, actor domain.UserID) error {
	_, err := s.commit(ctx, nil, func(ctx context.Context) (*mutation, error) {
		_, raw, err := s.readExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		m := newMutation()
		m.batch.Put(domain.RecurringExpensePath(id), nil).ExpectValue(domain.RecurringExpensePath(id), raw)
		return m, nil
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Recurring expense deleted", slog.String("expense_id", id), slog.String("actor", string(actor)))
	return nil
}

func (s *schedulerService) GetRecurringExpense(ctx context.Context, id string) (*domain.RecurringExpense, error) {
	expense, _, err := s.readExpense(ctx, id)
	return expense, err
}

func (s *schedulerService) ListRecurringExpenses(ctx context.Context) ([]domain.RecurringExpense, error) {
	nodes, err := s.store.List(ctx, domain.RecurringExpensesPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecurringExpense, 0, len(nodes))
	for key, raw := range nodes {
		var e domain.RecurringExpense
		if err := decodeNode(raw, &e); err != nil {
			s.LogError(ctx, err, "Skipping undecodable recurring expense", slog.String("expense_id", key))
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfMonth != out[j].DayOfMonth {
			return out[i].DayOfMonth < out[j].DayOfMonth
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func validateRecurringExpense(e domain.RecurringExpense) error {
	if e.Name == "" {
		return apperrors.Validationf("name is required")
	}
	if e.Category == "" {
		return apperrors.Validationf("category is required")
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if e.DayOfMonth < 1 || e.DayOfMonth > 31 {
		return apperrors.Validationf("dayOfMonth must be between 1 and 31")
	}
	if e.NotifyBefore && (e.DaysNotice < 1 || e.DaysNotice > maxDaysNotice) {
		return apperrors.Validationf("daysNotice must be between 1 and %d", maxDaysNotice)
	}
	return nil
}

// --- execution ---

// Execute charges the cycle the expense is overdue for. The expense is re-read inside the
// Casa lock and the write is conditioned on its raw value, so a cycle is charged once even
// when two schedulers race; the ledger id derived from the cycle catches anything else.
func (s *schedulerService) Execute(ctx context.Context, expense domain.RecurringExpense, actor domain.UserID) (*dto.ExecutionResult, error) {
	result := &dto.ExecutionResult{ExpenseID: expense.ID, Name: expense.Name, Amount: expense.Amount}
	casa := domain.Casa()

	m, err := s.commit(ctx, []domain.AccountRef{casa}, func(ctx context.Context) (*mutation, error) {
		current, raw, err := s.readExpense(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		now := s.Now()
		if !domain.IsOverdue(*current, now) {
			return &mutation{expense: current, replay: true}, nil
		}

		scheduled := current.NextExecution
		txID := domain.RecurringTxID(current.ID, scheduled)
		existing, err := s.lookupTransaction(ctx, txID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &mutation{expense: current, tx: existing, replay: true}, nil
		}

		casaAcc, casaRaw, err := s.readAccount(ctx, casa)
		if err != nil {
			return nil, err
		}
		if casaAcc.Balance.LessThan(current.Amount) {
			return nil, fmt.Errorf("%w: casa holds %s, %s needs %s", apperrors.ErrInsufficientFunds,
				casaAcc.Balance.StringFixed(2), current.Name, current.Amount.StringFixed(2))
		}

		m := newMutation()
		balance, err := m.moveBalance(casaAcc, casaRaw, current.Amount.Neg(), now)
		if err != nil {
			return nil, err
		}
		m.record(domain.Transaction{
			ID:                txID,
			Kind:              domain.KindRecurringExpense,
			Amount:            current.Amount,
			Source:            &casa,
			Category:          current.Category,
			Concept:           current.Name,
			Timestamp:         now,
			Actor:             actor,
			ResultingBalances: map[string]decimal.Decimal{casa.String(): balance},
		})

		current.NextExecution = domain.AdvancePast(current.DayOfMonth, scheduled, now)
		current.LastExecution = &now
		m.batch.Put(domain.RecurringExpensePath(current.ID), current).ExpectValue(domain.RecurringExpensePath(current.ID), raw)
		m.expense = current

		m.notify(newNotification(domain.NotifyRecurringExecuted, domain.RecipientAdmins, txID, amountPtr(current.Amount),
			fmt.Sprintf("Recurring expense %s charged %s to casa", current.Name, current.Amount.StringFixed(2)), now,
			map[string]string{"expenseId": current.ID, "transactionId": txID}))
		return m, nil
	})
	if err != nil {
		result.Status = dto.ExecutionFailed
		result.Error = err.Error()
		s.logMutationFailure(ctx, err, "recurring expense", expense.ID)
		return result, err
	}

	result.Expense = m.expense
	if m.replay {
		result.Status = dto.ExecutionSkipped
		if m.tx != nil {
			result.TransactionID = m.tx.ID
		}
		return result, nil
	}
	result.Status = dto.ExecutionExecuted
	result.TransactionID = m.tx.ID
	s.LogInfo(ctx, "Recurring expense executed", slog.String("expense_id", expense.ID), slog.String("tx_id", m.tx.ID))
	return result, nil
}

// ProcessOverdue executes every overdue expense concurrently. Individual failures never
// abort the pass; they are collected into one summary notification for the admins.
func (s *schedulerService) ProcessOverdue(ctx context.Context, actor domain.UserID) (*dto.OverdueSummary, error) {
	expenses, err := s.ListRecurringExpenses(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	var (
		mu      sync.Mutex
		summary = &dto.OverdueSummary{
			Executed: []dto.ExecutionResult{},
			Failed:   []dto.ExecutionResult{},
			Skipped:  []dto.ExecutionResult{},
		}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overdueConcurrency)
	for _, e := range expenses {
		if !domain.IsOverdue(e, now) {
			continue
		}
		g.Go(func() error {
			result, _ := s.Execute(gctx, e, actor)
			mu.Lock()
			defer mu.Unlock()
			switch result.Status {
			case dto.ExecutionExecuted:
				summary.Executed = append(summary.Executed, *result)
			case dto.ExecutionSkipped:
				summary.Skipped = append(summary.Skipped, *result)
			default:
				summary.Failed = append(summary.Failed, *result)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, list := range [][]dto.ExecutionResult{summary.Executed, summary.Failed, summary.Skipped} {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}

	if len(summary.Failed) > 0 {
		if err := s.notifyFailures(ctx, summary.Failed); err != nil {
			s.LogError(ctx, err, "Failed to record recurring failure summary")
		}
	}
	s.LogInfo(ctx, "Overdue recurring expenses processed",
		slog.Int("executed", len(summary.Executed)),
		slog.Int("failed", len(summary.Failed)),
		slog.Int("skipped", len(summary.Skipped)))
	return summary, nil
}

func (s *schedulerService) notifyFailures(ctx context.Context, failed []dto.ExecutionResult) error {
	now := s.Now()
	lines := make([]string, 0, len(failed))
	total := decimal.Zero
	for _, f := range failed {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", f.Name, f.Amount.StringFixed(2), f.Error))
		total = total.Add(f.Amount)
	}
	cause := fmt.Sprintf("recurring-failed-%d", now.UnixNano())
	note := newNotification(domain.NotifyRecurringFailedSummary, domain.RecipientAdmins, cause, amountPtr(total),
		fmt.Sprintf("%d recurring expense(s) could not be charged: %s", len(failed), strings.Join(lines, "; ")), now,
		map[string]string{"failedCount": fmt.Sprint(len(failed))})

	m := newMutation()
	m.notify(note)
	if err := s.store.Commit(ctx, m.batch); err != nil {
		return err
	}
	s.notifier.dispatch(ctx, m.notifications)
	return nil
}

// CheckUpcoming sends the advance notice for expenses whose notice window is open.
func (s *schedulerService) CheckUpcoming(ctx context.Context) (int, error) {
	expenses, err := s.ListRecurringExpenses(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, e := range expenses {
		if !domain.UpcomingNoticeDue(e, s.Now()) {
			continue
		}
		m, err := s.commit(ctx, nil, func(ctx context.Context) (*mutation, error) {
			current, raw, err := s.readExpense(ctx, e.ID)
			if err != nil {
				return nil, err
			}
			now := s.Now()
			if !domain.UpcomingNoticeDue(*current, now) {
				return &mutation{replay: true}, nil
			}
			current.LastNotified = &now

			m := newMutation()
			m.batch.Put(domain.RecurringExpensePath(current.ID), current).ExpectValue(domain.RecurringExpensePath(current.ID), raw)
			cause := fmt.Sprintf("upcoming-%s-%d-%d", current.ID, current.NextExecution.Unix(), now.Unix())
			m.notify(newNotification(domain.NotifyRecurringUpcoming, domain.RecipientAdmins, cause, amountPtr(current.Amount),
				fmt.Sprintf("%s (%s) will be charged on %s", current.Name, current.Amount.StringFixed(2), current.NextExecution.Format("2006-01-02")), now,
				map[string]string{"expenseId": current.ID}))
			return m, nil
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to send upcoming notice", slog.String("expense_id", e.ID))
			continue
		}
		if !m.replay {
			sent++
		}
	}
	return sent, nil
}

// RunOnce is the guarded scheduler pass.
func (s *schedulerService) RunOnce(ctx context.Context, actor domain.UserID) (*dto.SchedulerRunResult, error) {
	if !s.guard.TryLock() {
		return nil, ErrSchedulerBusy
	}
	defer s.guard.Unlock()

	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, schedulerLockKey, s.lockTTL)
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrSchedulerBusy
		}
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.LogError(ctx, err, "Failed to release scheduler lock")
			}
		}()
	}

	overdue, err := s.ProcessOverdue(ctx, actor)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.CheckUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SchedulerRunResult{Overdue: *overdue, UpcomingNotified: upcoming}, nil
}

// Run performs a pass immediately and then every interval until ctx is done.
func (s *schedulerService) Run(ctx context.Context, interval time.Duration) {
	ctx = middleware.WithLogger(ctx, s.GetLogger(ctx).With(slog.String("component", "scheduler")))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx, SystemActor); err != nil {
			if errors.Is(err, ErrSchedulerBusy) {
				s.LogDebug(ctx, "Scheduler pass skipped, another pass is running")
			} else {
				s.LogError(ctx, err, "Scheduler pass failed")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *schedulerService) readExpense(ctx context.Context, id string) (*domain.RecurringExpense, []byte, error) {
	if err := validateID("recurring expense id", id); err != nil {
		return nil, nil, err
	}
	var e domain.RecurringExpense
	raw, err := s.readNode(ctx, domain.RecurringExpensePath(id), &e)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: recurring expense %s", apperrors.ErrNotFound, id)
		}
		return nil, nil, err
	}
	return &e, raw, nil
}
