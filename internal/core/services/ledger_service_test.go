package services_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
)

var (
	casa = domain.Casa()
	ana  = domain.Personal("ana")
	luis = domain.Personal("luis")
)

func TestDeposit_CreditsTarget(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "10")

	tx, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{
		Target: ana, Amount: dec("25.50"), Concept: "Birthday gift",
	}, "mama")
	require.NoError(t, err)

	assert.Equal(t, domain.KindDepositPersonal, tx.Kind)
	assert.True(t, env.balance(t, ana).Equal(dec("35.50")))
	assert.True(t, tx.ResultingBalances["personal:ana"].Equal(dec("35.50")))
	assert.Equal(t, baseTime, tx.Timestamp)

	notes := env.notifications(t, "ana")
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifyDeposit, notes[0].Type)
	env.dispatcher.AssertCalled(t, "Dispatch", mock.Anything, notes[0].ID)
}

func TestDeposit_CasaSendsNoNotification(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: casa, Amount: dec("100"), Concept: "Monthly pool"}, "mama")
	require.NoError(t, err)

	assert.True(t, env.balance(t, casa).Equal(dec("100")))
	env.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestDeposit_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]dto.DepositRequest{
		"zero amount":     {Target: casa, Amount: dec("0"), Concept: "Monthly pool"},
		"above max":       {Target: casa, Amount: dec("10000.01"), Concept: "Monthly pool"},
		"sub-cent":        {Target: casa, Amount: dec("1.001"), Concept: "Monthly pool"},
		"short concept":   {Target: casa, Amount: dec("1"), Concept: "abc"},
		"future date":     {Target: casa, Amount: dec("1"), Concept: "Monthly pool", Date: baseTime.Add(48 * time.Hour)},
		"malformed ref":   {Target: domain.AccountRef{}, Amount: dec("1"), Concept: "Monthly pool"},
		"txID with slash": {Target: casa, Amount: dec("1"), Concept: "Monthly pool", TxID: "a/b"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Ledger.Deposit(env.ctx, req, "mama")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	assert.True(t, env.balance(t, casa).IsZero())
}

func TestDeposit_UnknownAccount(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: luis, Amount: dec("5"), Concept: "Pocket money"}, "mama")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransfer_ConservesTotal(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	env.seed(t, ana, "20")

	tx, err := env.svc.Ledger.Transfer(env.ctx, dto.TransferRequest{
		Source: casa, Dest: ana, Amount: dec("30"), Concept: "School trip",
	}, "mama")
	require.NoError(t, err)

	assert.Equal(t, domain.KindTransferCasaToPersonal, tx.Kind)
	assert.True(t, env.balance(t, casa).Equal(dec("70")))
	assert.True(t, env.balance(t, ana).Equal(dec("50")))
	assert.True(t, env.balance(t, casa).Add(env.balance(t, ana)).Equal(dec("120")))
	require.Len(t, env.notifications(t, "ana"), 1)
}

func TestTransfer_InsufficientFundsLeavesBalances(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "10")
	env.seed(t, luis, "0")

	_, err := env.svc.Ledger.Transfer(env.ctx, dto.TransferRequest{
		Source: ana, Dest: luis, Amount: dec("10.01"), Concept: "Pay back",
	}, "ana")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.True(t, env.balance(t, ana).Equal(dec("10")))
	assert.True(t, env.balance(t, luis).IsZero())
	assert.Empty(t, env.transactions(t))
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "10")
	_, err := env.svc.Ledger.Transfer(env.ctx, dto.TransferRequest{Source: ana, Dest: ana, Amount: dec("1"), Concept: "Loop back"}, "ana")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPersonalExpense_IdempotentOnTxID(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "50")
	req := dto.PersonalExpenseRequest{User: "ana", Amount: dec("12"), Category: "food", Concept: "Lunch with friends", TxID: "exp-1"}

	first, err := env.svc.Ledger.PersonalExpense(env.ctx, req, "ana")
	require.NoError(t, err)
	second, err := env.svc.Ledger.PersonalExpense(env.ctx, req, "ana")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, env.balance(t, ana).Equal(dec("38")))
	assert.Len(t, env.transactions(t), 1)
}

func TestLedgerMutators_ReplayIsNotLoggedAsRecorded(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "100")
	env.seed(t, ana, "50")
	var logs bytes.Buffer
	ctx := middleware.WithLogger(env.ctx, slog.New(slog.NewJSONHandler(&logs, nil)))

	for range 2 {
		_, err := env.svc.Ledger.Deposit(ctx, dto.DepositRequest{Target: ana, Amount: dec("5"), Concept: "Weekly allowance", TxID: "dep-1"}, "mama")
		require.NoError(t, err)
		_, err = env.svc.Ledger.Transfer(ctx, dto.TransferRequest{Source: casa, Dest: ana, Amount: dec("5"), Concept: "Bus money", TxID: "trf-1"}, "mama")
		require.NoError(t, err)
		_, err = env.svc.Ledger.PersonalExpense(ctx, dto.PersonalExpenseRequest{User: "ana", Amount: dec("5"), Category: "food", Concept: "Lunch with friends", TxID: "exp-1"}, "ana")
		require.NoError(t, err)
	}

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, `"msg":"Deposit recorded"`))
	assert.Equal(t, 1, strings.Count(out, `"msg":"Transfer recorded"`))
	assert.Equal(t, 1, strings.Count(out, `"msg":"Personal expense recorded"`))
	assert.Equal(t, 3, strings.Count(out, "replaying stored result"))
	assert.True(t, env.balance(t, ana).Equal(dec("55")))
}

func TestPersonalExpense_ReplayBypassesValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "50")
	_, err := env.svc.Ledger.PersonalExpense(env.ctx, dto.PersonalExpenseRequest{
		User: "ana", Amount: dec("12"), Category: "food", Concept: "Lunch with friends", TxID: "exp-1",
	}, "ana")
	require.NoError(t, err)

	// The stored entry wins even when the retried call carries a different body.
	tx, err := env.svc.Ledger.PersonalExpense(env.ctx, dto.PersonalExpenseRequest{User: "ana", Amount: dec("0"), TxID: "exp-1"}, "ana")
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(dec("12")))
}

func TestPersonalExpense_ConceptMinimum(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "50")
	_, err := env.svc.Ledger.PersonalExpense(env.ctx, dto.PersonalExpenseRequest{User: "ana", Amount: dec("1"), Category: "food", Concept: "too short"}, "ana")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCommit_RetriesLostRace(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, casa, "10")
	env.store.FailNextCommits(fmt.Errorf("%w: simulated", apperrors.ErrConflict))

	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: casa, Amount: dec("5"), Concept: "Monthly pool"}, "mama")
	require.NoError(t, err)
	assert.True(t, env.balance(t, casa).Equal(dec("15")))
}

func TestCommit_GivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	conflict := fmt.Errorf("%w: simulated", apperrors.ErrConflict)
	env.store.FailNextCommits(conflict, conflict, conflict)

	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: casa, Amount: dec("5"), Concept: "Monthly pool"}, "mama")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.True(t, env.balance(t, casa).IsZero())
}

func TestCommit_TransportSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAvailable(false)

	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: casa, Amount: dec("5"), Concept: "Monthly pool"}, "mama")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestDispatchFailureDoesNotUndoWrite(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "0")
	env.dispatcher.ExpectedCalls = nil
	env.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: 502", apperrors.ErrTransport))

	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: ana, Amount: dec("5"), Concept: "Pocket money"}, "mama")
	require.NoError(t, err)
	assert.True(t, env.balance(t, ana).Equal(dec("5")))
}

func TestListTransactions_PagesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.clock.Set(baseTime.Add(time.Duration(i) * time.Minute))
		_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{
			Target: casa, Amount: dec("1"), Concept: "Monthly pool", TxID: fmt.Sprintf("d%d", i),
		}, "mama")
		require.NoError(t, err)
	}

	page, err := env.svc.Ledger.ListTransactions(env.ctx, dto.ListTransactionsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, "d4", page.Transactions[0].ID)
	assert.Equal(t, "d3", page.Transactions[1].ID)
	require.NotNil(t, page.NextToken)

	page, err = env.svc.Ledger.ListTransactions(env.ctx, dto.ListTransactionsParams{Limit: 2, NextToken: page.NextToken})
	require.NoError(t, err)
	assert.Equal(t, "d2", page.Transactions[0].ID)

	filtered, err := env.svc.Ledger.ListTransactions(env.ctx, dto.ListTransactionsParams{Account: &ana})
	require.NoError(t, err)
	assert.Empty(t, filtered.Transactions)
}

func TestGetTransaction(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: casa, Amount: dec("1"), Concept: "Monthly pool", TxID: "d1"}, "mama")
	require.NoError(t, err)

	tx, err := env.svc.Ledger.GetTransaction(env.ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, casa, *tx.Dest)

	_, err = env.svc.Ledger.GetTransaction(env.ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOpenAccount(t *testing.T) {
	env := newTestEnv(t)

	acc, err := env.svc.Account.OpenAccount(env.ctx, luis, "mama")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	_, err = env.svc.Account.OpenAccount(env.ctx, luis, "mama")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	accounts, err := env.svc.Account.ListPersonalAccounts(env.ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, luis, accounts[0].Ref)
}
