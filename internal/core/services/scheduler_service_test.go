package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/core/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

func createExpense(t *testing.T, env *testEnv, name, amount string, day int) *domain.RecurringExpense {
	t.Helper()
	e, err := env.svc.Scheduler.CreateRecurringExpense(env.ctx, dto.CreateRecurringExpenseRequest{
		Name: name, Amount: dec(amount), Category: "home", DayOfMonth: day, Active: true,
	}, "mama")
	require.NoError(t, err)
	return e
}

func TestCreateRecurringExpense_SchedulesNextDay(t *testing.T) {
	env := newTestEnv(t)
	e := createExpense(t, env, "Internet", "30", 5)

	assert.Equal(t, time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), e.NextExecution)
	assert.Nil(t, e.LastExecution)
}

func TestCreateRecurringExpense_Validation(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]dto.CreateRecurringExpenseRequest{
		"no name":        {Amount: dec("1"), Category: "home", DayOfMonth: 1},
		"bad day":        {Name: "Rent", Amount: dec("1"), Category: "home", DayOfMonth: 32},
		"notice too far": {Name: "Rent", Amount: dec("1"), Category: "home", DayOfMonth: 1, NotifyBefore: true, DaysNotice: 16},
		"amount":         {Name: "Rent", Amount: dec("0"), Category: "home", DayOfMonth: 1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Scheduler.CreateRecurringExpense(env.ctx, req, "mama")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUpdateRecurringExpense_ReactivationReschedules(t *testing.T) {
	env := newTestEnv(t)
	e := createExpense(t, env, "Internet", "30", 5)

	off := false
	_, err := env.svc.Scheduler.UpdateRecurringExpense(env.ctx, e.ID, dto.UpdateRecurringExpenseRequest{Active: &off}, "mama")
	require.NoError(t, err)

	env.clock.Set(time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
	on := true
	updated, err := env.svc.Scheduler.UpdateRecurringExpense(env.ctx, e.ID, dto.UpdateRecurringExpenseRequest{Active: &on}, "papa")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC), updated.NextExecution)
	assert.Equal(t, domain.UserID("papa"), updated.LastUpdatedBy)
}

func TestDeleteRecurringExpense(t *testing.T) {
	env := newTestEnv(t)
	e := createExpense(t, env, "Internet", "30", 5)

	require.NoError(t, env.svc.Scheduler.DeleteRecurringExpense(env.ctx, e.ID, "mama"))
	_, err := env.svc.Scheduler.GetRecurringExpense(env.ctx, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecute_ChargesOverdueCycleOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	e := createExpense(t, env, "Internet", "30", 5)
	env.clock.Set(time.Date(2025, time.April, 5, 10, 0, 0, 0, time.UTC))

	result, err := env.svc.Scheduler.Execute(env.ctx, *e, services.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionExecuted, result.Status)
	assert.Equal(t, domain.RecurringTxID(e.ID, e.NextExecution), result.TransactionID)
	assert.Equal(t, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC), result.Expense.NextExecution)
	assert.True(t, env.balance(t, casa).Equal(dec("70")))

	// A second executor holding the stale copy finds nothing left to do.
	again, err := env.svc.Scheduler.Execute(env.ctx, *e, services.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionSkipped, again.Status)
	assert.True(t, env.balance(t, casa).Equal(dec("70")))
	assert.Len(t, env.transactions(t), 1)
}

func TestExecute_NotOverdueIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	e := createExpense(t, env, "Internet", "30", 5)

	result, err := env.svc.Scheduler.Execute(env.ctx, *e, services.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, dto.ExecutionSkipped, result.Status)
	assert.True(t, env.balance(t, casa).Equal(dec("100")))
}

func TestExecute_CatchesUpMissedMonths(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	e := createExpense(t, env, "Internet", "30", 5)
	env.clock.Set(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))

	result, err := env.svc.Scheduler.Execute(env.ctx, *e, services.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC), result.Expense.NextExecution)
	assert.True(t, env.balance(t, casa).Equal(dec("70")))
}

func TestProcessOverdue_SummarisesFailures(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	createExpense(t, env, "Internet", "30", 5)
	createExpense(t, env, "Rent", "200", 5)
	createExpense(t, env, "Gym", "10", 10)
	env.clock.Set(time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC))

	summary, err := env.svc.Scheduler.ProcessOverdue(env.ctx, services.SystemActor)
	require.NoError(t, err)

	require.Len(t, summary.Executed, 1)
	assert.Equal(t, "Internet", summary.Executed[0].Name)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "Rent", summary.Failed[0].Name)
	assert.Contains(t, summary.Failed[0].Error, apperrors.ErrInsufficientFunds.Error())
	assert.True(t, env.balance(t, casa).Equal(dec("70")))

	var summaries int
	for _, n := range env.notifications(t, domain.RecipientAdmins) {
		if n.Type == domain.NotifyRecurringFailedSummary {
			summaries++
			assert.Contains(t, n.Message, "Rent")
		}
	}
	assert.Equal(t, 1, summaries)
}

func TestCheckUpcoming_NotifiesOncePerWindow(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Scheduler.CreateRecurringExpense(env.ctx, dto.CreateRecurringExpenseRequest{
		Name: "School fees", Amount: dec("80"), Category: "school", DayOfMonth: 20,
		Active: true, NotifyBefore: true, DaysNotice: 3,
	}, "mama")
	require.NoError(t, err)

	sent, err := env.svc.Scheduler.CheckUpcoming(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	env.clock.Set(time.Date(2025, time.March, 17, 6, 0, 0, 0, time.UTC))
	sent, err = env.svc.Scheduler.CheckUpcoming(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = env.svc.Scheduler.CheckUpcoming(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRunOnce_LockHeldElsewhere(t *testing.T) {
	locker := new(MockLocker)
	locker.On("Obtain", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: held", apperrors.ErrConflict)).Once()
	env := newTestEnv(t, withLocker(locker))

	_, err := env.svc.Scheduler.RunOnce(env.ctx, services.SystemActor)
	assert.ErrorIs(t, err, services.ErrSchedulerBusy)
	locker.AssertExpectations(t)
}

func TestRunOnce_ReleasesLock(t *testing.T) {
	released := false
	release := func(context.Context) error { released = true; return nil }
	locker := new(MockLocker)
	locker.On("Obtain", mock.Anything, mock.Anything, mock.Anything).Return(release, nil).Once()
	env := newTestEnv(t, withLocker(locker))
	env.seed(t, casa, "100")
	createExpense(t, env, "Internet", "30", 5)
	env.clock.Set(time.Date(2025, time.April, 5, 1, 0, 0, 0, time.UTC))

	result, err := env.svc.Scheduler.RunOnce(env.ctx, services.SystemActor)
	require.NoError(t, err)
	assert.Len(t, result.Overdue.Executed, 1)
	assert.True(t, released)
}

func TestRunOnce_InProcessGuard(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	release := func(context.Context) error { return nil }
	locker := new(MockLocker)
	locker.On("Obtain", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-proceed
		}).
		Return(release, nil).Once()
	env := newTestEnv(t, withLocker(locker))

	done := make(chan error, 1)
	go func() {
		_, err := env.svc.Scheduler.RunOnce(env.ctx, services.SystemActor)
		done <- err
	}()
	<-started

	_, err := env.svc.Scheduler.RunOnce(env.ctx, services.SystemActor)
	assert.ErrorIs(t, err, services.ErrSchedulerBusy)

	close(proceed)
	require.NoError(t, <-done)
	locker.AssertExpectations(t)
}
