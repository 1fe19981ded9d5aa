package services

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for balances.
type AccountReaderSvc interface {
	// GetAccount returns the account or apperrors.ErrNotFound.
	GetAccount(ctx context.Context, ref domain.AccountRef) (*domain.Account, error)

	// ListPersonalAccounts returns every member account ordered by user id.
	ListPersonalAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines account lifecycle operations. Balances are never written here.
type AccountWriterSvc interface {
	// OpenAccount creates the account with a zero balance; apperrors.ErrDuplicate if it exists.
	OpenAccount(ctx context.Context, ref domain.AccountRef, actor domain.UserID) (*domain.Account, error)

	// EnsureCasa opens the shared account if it is missing.
	EnsureCasa(ctx context.Context) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
