package services

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

// LedgerWriterSvc defines the balance mutators. Each one validates, moves money and appends
// the ledger entry in a single atomic write. Supplying a TxID makes the call replay-safe.
type LedgerWriterSvc interface {
	// Deposit credits Casa or a personal account.
	Deposit(ctx context.Context, req dto.DepositRequest, actor domain.UserID) (*domain.Transaction, error)

	// Transfer debits source and credits dest; source must differ from dest.
	Transfer(ctx context.Context, req dto.TransferRequest, actor domain.UserID) (*domain.Transaction, error)

	// PersonalExpense debits the member's personal account.
	PersonalExpense(ctx context.Context, req dto.PersonalExpenseRequest, actor domain.UserID) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read operations on the append-only ledger.
type LedgerReaderSvc interface {
	// GetTransaction returns a ledger entry or apperrors.ErrNotFound.
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)

	// ListTransactions returns a page of entries, newest first.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
