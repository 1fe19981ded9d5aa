package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/utils/pagination"
)

const (
	minDepositConcept  = 5
	minTransferConcept = 5
	minExpenseConcept  = 10

	defaultPageSize = 50
	maxPageSize     = 200
)

// ledgerService implements the deposit, transfer and personal expense mutators.
type ledgerService struct {
	*ledgerCore
}

func newLedgerService(core *ledgerCore) *ledgerService {
	return &ledgerService{ledgerCore: core}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// txIDOrNew returns the caller's id after checking it is path-safe, or a fresh one.
func txIDOrNew(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	if err := validateID("txID", id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *ledgerService) Deposit(ctx context.Context, req dto.DepositRequest, actor domain.UserID) (*domain.Transaction, error) {
	txID, err := txIDOrNew(req.TxID)
	if err != nil {
		return nil, err
	}

	tx, replayed, err := s.recordTransaction(ctx, txID, []domain.AccountRef{req.Target}, func(ctx context.Context) (*mutation, error) {
		if err := req.Target.Validate(); err != nil {
			return nil, apperrors.Validationf("target: %v", err)
		}
		if err := validateAmount(req.Amount); err != nil {
			return nil, err
		}
		if err := validateMinLength("concept", req.Concept, minDepositConcept); err != nil {
			return nil, err
		}
		now := s.Now()
		date := req.Date
		if date.IsZero() {
			date = now
		}
		if date.After(now) {
			return nil, apperrors.Validationf("deposit date %s is in the future", date.Format("2006-01-02"))
		}

		acc, raw, err := s.readAccount(ctx, req.Target)
		if err != nil {
			return nil, err
		}

		m := newMutation()
		balance, err := m.moveBalance(acc, raw, req.Amount, now)
		if err != nil {
			return nil, err
		}

		kind := domain.KindDepositPersonal
		if req.Target.IsCasa() {
			kind = domain.KindDepositCasa
		}
		dest := req.Target
		m.record(domain.Transaction{
			ID:                txID,
			Kind:              kind,
			Amount:            req.Amount,
			Dest:              &dest,
			Concept:           strings.TrimSpace(req.Concept),
			Timestamp:         date,
			Actor:             actor,
			ResultingBalances: map[string]decimal.Decimal{dest.String(): balance},
		})

		if !req.Target.IsCasa() {
			m.notify(newNotification(domain.NotifyDeposit, req.Target.UserID, txID, amountPtr(req.Amount),
				fmt.Sprintf("Deposit of %s to your account: %s", req.Amount.StringFixed(2), req.Concept), now,
				map[string]string{"transactionId": txID}))
		}
		return m, nil
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "deposit", txID)
		return nil, err
	}
	if !replayed {
		s.LogInfo(ctx, "Deposit recorded", slog.String("tx_id", tx.ID), slog.String("target", req.Target.String()))
	}
	return tx, nil
}

func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest, actor domain.UserID) (*domain.Transaction, error) {
	txID, err := txIDOrNew(req.TxID)
	if err != nil {
		return nil, err
	}

	tx, replayed, err := s.recordTransaction(ctx, txID, []domain.AccountRef{req.Source, req.Dest}, func(ctx context.Context) (*mutation, error) {
		if err := req.Source.Validate(); err != nil {
			return nil, apperrors.Validationf("source: %v", err)
		}
		if err := req.Dest.Validate(); err != nil {
			return nil, apperrors.Validationf("dest: %v", err)
		}
		if req.Source == req.Dest {
			return nil, apperrors.Validationf("source and destination must differ")
		}
		if err := validateAmount(req.Amount); err != nil {
			return nil, err
		}
		if err := validateMinLength("concept", req.Concept, minTransferConcept); err != nil {
			return nil, err
		}

		src, srcRaw, err := s.readAccount(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		dst, dstRaw, err := s.readAccount(ctx, req.Dest)
		if err != nil {
			return nil, err
		}

		now := s.Now()
		m := newMutation()
		srcBalance, err := m.moveBalance(src, srcRaw, req.Amount.Neg(), now)
		if err != nil {
			return nil, err
		}
		dstBalance, err := m.moveBalance(dst, dstRaw, req.Amount, now)
		if err != nil {
			return nil, err
		}

		source, dest := req.Source, req.Dest
		m.record(domain.Transaction{
			ID:        txID,
			Kind:      domain.TransferKind(source, dest),
			Amount:    req.Amount,
			Source:    &source,
			Dest:      &dest,
			Concept:   strings.TrimSpace(req.Concept),
			Timestamp: now,
			Actor:     actor,
			ResultingBalances: map[string]decimal.Decimal{
				source.String(): srcBalance,
				dest.String():   dstBalance,
			},
		})

		if !dest.IsCasa() {
			m.notify(newNotification(domain.NotifyTransfer, dest.UserID, txID, amountPtr(req.Amount),
				fmt.Sprintf("Transfer of %s received from %s: %s", req.Amount.StringFixed(2), source, req.Concept), now,
				map[string]string{"transactionId": txID, "source": source.String()}))
		}
		return m, nil
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "transfer", txID)
		return nil, err
	}
	if !replayed {
		s.LogInfo(ctx, "Transfer recorded", slog.String("tx_id", tx.ID), slog.String("source", req.Source.String()), slog.String("dest", req.Dest.String()))
	}
	return tx, nil
}

// PersonalExpense runs the idempotency gate before any validation, so a replay with a
// known txID always returns the stored entry.
func (s *ledgerService) PersonalExpense(ctx context.Context, req dto.PersonalExpenseRequest, actor domain.UserID) (*domain.Transaction, error) {
	txID, err := txIDOrNew(req.TxID)
	if err != nil {
		return nil, err
	}
	account := domain.Personal(req.User)

	tx, replayed, err := s.recordTransaction(ctx, txID, []domain.AccountRef{account}, func(ctx context.Context) (*mutation, error) {
		if err := account.Validate(); err != nil {
			return nil, apperrors.Validationf("user: %v", err)
		}
		if err := validateAmount(req.Amount); err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.Category) == "" {
			return nil, apperrors.Validationf("category is required")
		}
		if err := validateMinLength("concept", req.Concept, minExpenseConcept); err != nil {
			return nil, err
		}

		acc, raw, err := s.readAccount(ctx, account)
		if err != nil {
			return nil, err
		}

		now := s.Now()
		m := newMutation()
		balance, err := m.moveBalance(acc, raw, req.Amount.Neg(), now)
		if err != nil {
			return nil, err
		}
		m.record(domain.Transaction{
			ID:                txID,
			Kind:              domain.KindPersonalExpense,
			Amount:            req.Amount,
			Source:            &account,
			Category:          strings.TrimSpace(req.Category),
			Concept:           strings.TrimSpace(req.Concept),
			Timestamp:         now,
			Actor:             actor,
			ResultingBalances: map[string]decimal.Decimal{account.String(): balance},
		})
		return m, nil
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "personal expense", txID)
		return nil, err
	}
	if !replayed {
		s.LogInfo(ctx, "Personal expense recorded", slog.String("tx_id", tx.ID), slog.String("user_id", string(req.User)))
	}
	return tx, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if err := validateID("transaction id", id); err != nil {
		return nil, err
	}
	tx, err := s.lookupTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
	}
	return tx, nil
}

// ListTransactions orders by timestamp descending with the id as tie breaker; the next
// token is the sort key of the last entry returned.
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := pagination.ClampLimit(params.Limit, defaultPageSize, maxPageSize)

	var (
		afterTS  time.Time
		afterID  string
		hasAfter bool
	)
	if params.NextToken != nil && *params.NextToken != "" {
		ts, id, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.Validationf("%v", err)
		}
		afterTS, afterID, hasAfter = ts, id, true
	}

	nodes, err := s.store.List(ctx, domain.TransactionsPrefix)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(nodes))
	for key, raw := range nodes {
		var tx domain.Transaction
		if err := decodeNode(raw, &tx); err != nil {
			s.LogError(ctx, err, "Skipping undecodable transaction", slog.String("tx_id", key))
			continue
		}
		if params.Account != nil && !tx.Touches(*params.Account) {
			continue
		}
		if hasAfter && !sortsAfter(tx, afterTS, afterID) {
			continue
		}
		txs = append(txs, tx)
	}
	sort.Slice(txs, func(i, j int) bool { return sortsAfter(txs[j], txs[i].Timestamp, txs[i].ID) })

	resp := &dto.ListTransactionsResponse{Transactions: txs}
	if len(txs) > limit {
		resp.Transactions = txs[:limit]
		last := resp.Transactions[limit-1]
		token := pagination.EncodeToken(last.Timestamp, last.ID)
		resp.NextToken = &token
	}
	return resp, nil
}

// sortsAfter reports whether tx comes after the cursor (ts, id) in newest-first order.
func sortsAfter(tx domain.Transaction, ts time.Time, id string) bool {
	if !tx.Timestamp.Equal(ts) {
		return tx.Timestamp.Before(ts)
	}
	return tx.ID < id
}
