package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// maxCommitAttempts bounds the read-compute-write cycle when a conditional write loses a race.
const maxCommitAttempts = 3

// ledgerCore is the write machinery shared by every money-moving service: per-account
// locks, conditional commits with bounded retry, and notification staging.
type ledgerCore struct {
	BaseService
	store    portsrepo.Store
	locks    *accountLocks
	notifier *notifier
}

func newLedgerCore(store portsrepo.Store, notifier *notifier, clock Clock) *ledgerCore {
	return &ledgerCore{
		BaseService: BaseService{Clock: clock},
		store:       store,
		locks:       newAccountLocks(),
		notifier:    notifier,
	}
}

// mutation is one atomic write plus what it produced.
type mutation struct {
	batch         *portsrepo.Batch
	notifications []domain.Notification
	tx            *domain.Transaction
	request       *domain.Request
	expense       *domain.RecurringExpense
	// replay is set when the build found the work already done; nothing is committed.
	replay bool
}

func newMutation() *mutation {
	return &mutation{batch: portsrepo.NewBatch()}
}

// notify stages a notification in the same write as the mutation.
func (m *mutation) notify(n domain.Notification) {
	m.batch.Put(domain.NotificationPath(n.ID), n)
	m.notifications = append(m.notifications, n)
}

// moveBalance stages acc.balance += delta guarded by the raw value it was read from.
// A result below zero is ErrInsufficientFunds.
func (m *mutation) moveBalance(acc *domain.Account, raw []byte, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	next := acc.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s holds %s, needs %s", apperrors.ErrInsufficientFunds, acc.Ref, acc.Balance.StringFixed(2), delta.Neg().StringFixed(2))
	}
	updated := domain.Account{Ref: acc.Ref, Balance: next, LastUpdated: now}
	m.batch.Put(acc.Ref.Path(), updated)
	m.batch.ExpectValue(acc.Ref.Path(), raw)
	return next, nil
}

// record stages the ledger entry under the write-once guard on its id.
func (m *mutation) record(tx domain.Transaction) {
	m.batch.Put(domain.TransactionPath(tx.ID), tx)
	m.batch.ExpectAbsent(domain.TransactionPath(tx.ID))
	m.tx = &tx
}

type buildFunc func(ctx context.Context) (*mutation, error)

// commit runs build and commits its batch while holding the locks for refs. A lost race
// (ErrConflict) rebuilds from fresh reads, up to maxCommitAttempts times. Notifications are
// dispatched only after the batch is durable.
func (c *ledgerCore) commit(ctx context.Context, refs []domain.AccountRef, build buildFunc) (*mutation, error) {
	unlock := c.locks.lock(refs...)
	defer unlock()

	for attempt := 1; ; attempt++ {
		m, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if m.replay {
			return m, nil
		}

		err = c.store.Commit(ctx, m.batch)
		if err == nil {
			c.notifier.dispatch(ctx, m.notifications)
			return m, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt >= maxCommitAttempts {
			return nil, err
		}
		c.LogInfo(ctx, "Conditional write lost a race, retrying", slog.Int("attempt", attempt))
	}
}

// recordTransaction is commit with the idempotency gate in front: if a ledger entry with
// txID already exists, the stored entry is returned with replayed set and nothing is written.
func (c *ledgerCore) recordTransaction(ctx context.Context, txID string, refs []domain.AccountRef, build buildFunc) (tx *domain.Transaction, replayed bool, err error) {
	m, err := c.commit(ctx, refs, func(ctx context.Context) (*mutation, error) {
		existing, err := c.lookupTransaction(ctx, txID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			c.LogInfo(ctx, "Transaction already recorded, replaying stored result", slog.String("tx_id", txID))
			return &mutation{tx: existing, replay: true}, nil
		}
		return build(ctx)
	})
	if err != nil {
		return nil, false, err
	}
	return m.tx, m.replay, nil
}

// lookupTransaction returns the entry or nil when it does not exist.
func (c *ledgerCore) lookupTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	_, err := c.readNode(ctx, domain.TransactionPath(id), &tx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// readAccount returns the account and the raw value later used as the write precondition.
func (c *ledgerCore) readAccount(ctx context.Context, ref domain.AccountRef) (*domain.Account, []byte, error) {
	var acc domain.Account
	raw, err := c.readNode(ctx, ref.Path(), &acc)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, ref)
		}
		return nil, nil, err
	}
	return &acc, raw, nil
}

// readNode reads and decodes the node at path, returning its raw value.
func (c *ledgerCore) readNode(ctx context.Context, path string, v any) ([]byte, error) {
	raw, err := c.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := decodeNode(raw, v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

func decodeNode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decoding node: %v", apperrors.ErrInternal, err)
	}
	return nil
}

func (c *ledgerCore) logMutationFailure(ctx context.Context, err error, op, txID string) {
	switch apperrors.Classify(err) {
	case apperrors.KindValidation, apperrors.KindInsufficientFunds, apperrors.KindNotFound:
		c.LogInfo(ctx, "Mutation rejected", slog.String("op", op), slog.String("tx_id", txID), slog.String("error", err.Error()))
	default:
		c.LogError(ctx, err, "Mutation failed", slog.String("op", op), slog.String("tx_id", txID))
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !domain.AmountInRange(amount) {
		return apperrors.Validationf("amount must be greater than 0 and at most %s", domain.MaxAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.Validationf("amount %s has sub-cent precision", amount)
	}
	return nil
}

func validateMinLength(field, value string, min int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return apperrors.Validationf("%s must be at least %d characters", field, min)
	}
	return nil
}

// validateID rejects ids that would escape their store path.
func validateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Validationf("%s is required", field)
	}
	if strings.ContainsAny(id, "/") {
		return apperrors.Validationf("%s %q contains a path separator", field, id)
	}
	return nil
}
