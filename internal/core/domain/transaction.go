package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindDepositCasa              TransactionKind = "deposit-casa"
	KindDepositPersonal          TransactionKind = "deposit-personal"
	KindTransferCasaToPersonal   TransactionKind = "transfer-casa-personal"
	KindTransferPersonalToCasa   TransactionKind = "transfer-personal-casa"
	KindTransferPersonalPersonal TransactionKind = "transfer-personal-personal"
	KindPersonalExpense          TransactionKind = "personal-expense"
	KindRecurringExpense         TransactionKind = "recurring-expense"
	KindRequestSettlement        TransactionKind = "request-settlement"
)

// TransferKind derives the transaction kind from the two parties of a transfer.
// Casa to Casa is not a transfer and yields "".
func TransferKind(source, dest AccountRef) TransactionKind {
	switch {
	case source.IsCasa() && !dest.IsCasa():
		return KindTransferCasaToPersonal
	case !source.IsCasa() && dest.IsCasa():
		return KindTransferPersonalToCasa
	case !source.IsCasa() && !dest.IsCasa():
		return KindTransferPersonalPersonal
	default:
		return ""
	}
}

// TransactionsPrefix is the store prefix of the ledger.
const TransactionsPrefix = "transactions"

// Transaction is an immutable ledger entry. Its ID is write-once.
type Transaction struct {
	ID                string                     `json:"id"`
	Kind              TransactionKind            `json:"kind"`
	Amount            decimal.Decimal            `json:"amount"`
	Source            *AccountRef                `json:"source,omitempty"`
	Dest              *AccountRef                `json:"dest,omitempty"`
	Category          string                     `json:"category,omitempty"`
	Concept           string                     `json:"concept"`
	Timestamp         time.Time                  `json:"timestamp"`
	Actor             UserID                     `json:"actor"`
	ResultingBalances map[string]decimal.Decimal `json:"resultingBalances"`
}

// TransactionPath is the store location of a ledger entry.
func TransactionPath(id string) string { return TransactionsPrefix + "/" + id }

// Touches reports whether the entry debits or credits ref.
func (t Transaction) Touches(ref AccountRef) bool {
	return (t.Source != nil && *t.Source == ref) || (t.Dest != nil && *t.Dest == ref)
}
