package dto

import (
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRequestRequest opens a pending spend request for the caller.
type CreateRequestRequest struct {
	// ID is optional; replays that reuse an id get the existing request back.
	ID       string          `json:"id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" binding:"required"`
	Concept  string          `json:"concept" binding:"required"`
}

// RejectRequestBody carries the mandatory rejection reason.
type RejectRequestBody struct {
	Reason string `json:"reason" binding:"required,min=5"`
}

// ListRequestsParams filters requests by status.
type ListRequestsParams struct {
	Status *domain.RequestStatus
}
