package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/shopspring/decimal"
)

type accountService struct {
	*ledgerCore
}

// newAccountService creates the account service over the shared ledger core.
func newAccountService(core *ledgerCore) *accountService {
	return &accountService{ledgerCore: core}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) OpenAccount(ctx context.Context, ref domain.AccountRef, actor domain.UserID) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := ref.Validate(); err != nil {
		return nil, apperrors.Validationf("%v", err)
	}

	account := domain.Account{Ref: ref, Balance: decimal.Zero, LastUpdated: s.Now()}
	_, err := s.commit(ctx, []domain.AccountRef{ref}, func(ctx context.Context) (*mutation, error) {
		_, err := s.store.Get(ctx, ref.Path())
		if err == nil {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, ref)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		m := newMutation()
		m.batch.Put(ref.Path(), account).ExpectAbsent(ref.Path())
		return m, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		logger.Error("Failed to open account", slog.String("error", err.Error()), slog.String("account", ref.String()))
		return nil, err
	}

	logger.Info("Account opened", slog.String("account", ref.String()), slog.String("actor", string(actor)))
	return &account, nil
}

func (s *accountService) EnsureCasa(ctx context.Context) error {
	_, err := s.OpenAccount(ctx, domain.Casa(), SystemActor)
	if errors.Is(err, apperrors.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *accountService) GetAccount(ctx context.Context, ref domain.AccountRef) (*domain.Account, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperrors.Validationf("%v", err)
	}
	acc, _, err := s.readAccount(ctx, ref)
	return acc, err
}

func (s *accountService) ListPersonalAccounts(ctx context.Context) ([]domain.Account, error) {
	nodes, err := s.store.List(ctx, domain.PersonalAccountsPrefix)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(nodes))
	for key, raw := range nodes {
		var acc domain.Account
		if err := decodeNode(raw, &acc); err != nil {
			s.LogError(ctx, err, "Skipping undecodable account", slog.String("user_id", key))
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Ref.UserID < accounts[j].Ref.UserID })
	return accounts, nil
}
