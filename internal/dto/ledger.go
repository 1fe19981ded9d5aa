package dto

import (
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest credits Casa or a personal account.
type DepositRequest struct {
	Target  domain.AccountRef `json:"target"`
	Amount  decimal.Decimal   `json:"amount"`
	Concept string            `json:"concept" binding:"required"`
	// Date is when the money arrived; zero means now. Future dates are rejected.
	Date time.Time `json:"date"`
	TxID string    `json:"txID,omitempty"`
}

// TransferRequest moves money between two different accounts.
type TransferRequest struct {
	Source  domain.AccountRef `json:"source"`
	Dest    domain.AccountRef `json:"dest"`
	Amount  decimal.Decimal   `json:"amount"`
	Concept string            `json:"concept" binding:"required"`
	TxID    string            `json:"txID,omitempty"`
}

// PersonalExpenseRequest debits a member's personal account.
type PersonalExpenseRequest struct {
	User     domain.UserID   `json:"user" binding:"omitempty,userid"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" binding:"required"`
	Concept  string          `json:"concept" binding:"required"`
	TxID     string          `json:"txID,omitempty"`
}

// SettleRequestRequest approves or rejects a pending spend request.
type SettleRequestRequest struct {
	RequestID string          `json:"-"`
	Decision  domain.Decision `json:"decision" binding:"required,oneof=approve reject"`
	Reason    string          `json:"reason"`
}

// ListTransactionsParams filters and pages the ledger, newest first.
type ListTransactionsParams struct {
	Account   *domain.AccountRef
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is one page of the ledger.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// OpenAccountRequest creates a personal account with a zero balance.
type OpenAccountRequest struct {
	UserID domain.UserID `json:"userID" binding:"required,userid"`
}
