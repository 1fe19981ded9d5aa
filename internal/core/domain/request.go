package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a spend request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// Decision is an approver's verdict on a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// RequestsPrefix is the store prefix of spend requests.
const RequestsPrefix = "requests"

// Request asks the administrators to move money from Casa to the requester's personal account.
type Request struct {
	ID              string          `json:"id"`
	Requester       UserID          `json:"requester"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Concept         string          `json:"concept"`
	Status          RequestStatus   `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
	ResolvedBy      UserID          `json:"resolvedBy,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	TransactionID   string          `json:"transactionID,omitempty"`
}

// RequestPath is the store location of a request.
func RequestPath(id string) string { return RequestsPrefix + "/" + id }
