package services

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

// RequestReaderSvc defines read operations for spend requests.
type RequestReaderSvc interface {
	GetRequest(ctx context.Context, id string) (*domain.Request, error)
	ListRequests(ctx context.Context, params dto.ListRequestsParams) ([]domain.Request, error)
}

// RequestWriterSvc defines the request lifecycle.
type RequestWriterSvc interface {
	// CreateRequest appends a pending request and notifies the administrators.
	// Reusing an id returns the stored request untouched.
	CreateRequest(ctx context.Context, req dto.CreateRequestRequest, requester domain.UserID) (*domain.Request, error)

	// SettleRequest moves a pending request to approved or rejected. Approval pays the
	// requester from Casa under the deterministic settlement transaction id.
	SettleRequest(ctx context.Context, req dto.SettleRequestRequest, admin domain.UserID) (*domain.Request, error)
}

// RequestSvcFacade combines all request-related service interfaces.
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
}
