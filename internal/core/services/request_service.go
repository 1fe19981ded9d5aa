package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

const (
	minRequestConcept = 5
	minRejectReason   = 5
)

// requestService runs the pending -> approved | rejected state machine.
type requestService struct {
	*ledgerCore
}

func newRequestService(core *ledgerCore) *requestService {
	return &requestService{ledgerCore: core}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

func (s *requestService) CreateRequest(ctx context.Context, req dto.CreateRequestRequest, requester domain.UserID) (*domain.Request, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	if err := validateID("request id", id); err != nil {
		return nil, err
	}
	if err := domain.Personal(requester).Validate(); err != nil {
		return nil, apperrors.Validationf("requester: %v", err)
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, apperrors.Validationf("category is required")
	}
	if err := validateMinLength("concept", req.Concept, minRequestConcept); err != nil {
		return nil, err
	}

	m, err := s.commit(ctx, nil, func(ctx context.Context) (*mutation, error) {
		existing, _, err := s.readRequest(ctx, id)
		if err == nil {
			return &mutation{request: existing, replay: true}, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		now := s.Now()
		request := domain.Request{
			ID:        id,
			Requester: requester,
			Amount:    req.Amount,
			Category:  strings.TrimSpace(req.Category),
			Concept:   strings.TrimSpace(req.Concept),
			Status:    domain.RequestPending,
			CreatedAt: now,
		}
		m := newMutation()
		m.batch.Put(domain.RequestPath(id), request).ExpectAbsent(domain.RequestPath(id))
		m.request = &request
		m.notify(newNotification(domain.NotifyRequestCreated, domain.RecipientAdmins, "request-"+id, amountPtr(req.Amount),
			fmt.Sprintf("%s requests %s for %s: %s", requester, req.Amount.StringFixed(2), request.Category, request.Concept), now,
			map[string]string{"requestId": id, "requester": string(requester)}))
		return m, nil
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "create request", id)
		return nil, err
	}
	if m.replay {
		s.LogInfo(ctx, "Request already exists, returning stored record", slog.String("request_id", id))
	} else {
		s.LogInfo(ctx, "Request created", slog.String("request_id", id))
	}
	return m.request, nil
}

// SettleRequest approves or rejects a pending request. A request that is no longer pending
// is a validation error, including one this admin already settled.
func (s *requestService) SettleRequest(ctx context.Context, req dto.SettleRequestRequest, admin domain.UserID) (*domain.Request, error) {
	if err := validateID("request id", req.RequestID); err != nil {
		return nil, err
	}
	var (
		request *domain.Request
		err     error
	)
	switch req.Decision {
	case domain.DecisionApprove:
		request, err = s.approve(ctx, req.RequestID, admin)
	case domain.DecisionReject:
		request, err = s.reject(ctx, req.RequestID, admin, req.Reason)
	default:
		return nil, apperrors.Validationf("unknown decision %q", req.Decision)
	}
	if err != nil {
		s.logMutationFailure(ctx, err, "settle request", req.RequestID)
		return nil, err
	}
	s.LogInfo(ctx, "Request settled", slog.String("request_id", request.ID), slog.String("status", string(request.Status)))
	return request, nil
}

func (s *requestService) approve(ctx context.Context, id string, admin domain.UserID) (*domain.Request, error) {
	// The requester is needed to pick the locks, so peek before locking and re-read inside.
	peek, _, err := s.readRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	casa, personal := domain.Casa(), domain.Personal(peek.Requester)

	m, err := s.commit(ctx, []domain.AccountRef{casa, personal}, func(ctx context.Context) (*mutation, error) {
		request, requestRaw, err := s.readPendingRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		casaAcc, casaRaw, err := s.readAccount(ctx, casa)
		if err != nil {
			return nil, err
		}
		if casaAcc.Balance.LessThan(request.Amount) {
			return nil, fmt.Errorf("%w: casa holds %s, request %s needs %s", apperrors.ErrInsufficientFunds,
				casaAcc.Balance.StringFixed(2), id, request.Amount.StringFixed(2))
		}
		userAcc, userRaw, err := s.readAccount(ctx, personal)
		if err != nil {
			return nil, err
		}

		now := s.Now()
		txID := domain.SettlementTxID(id)
		m := newMutation()
		casaBalance, err := m.moveBalance(casaAcc, casaRaw, request.Amount.Neg(), now)
		if err != nil {
			return nil, err
		}
		userBalance, err := m.moveBalance(userAcc, userRaw, request.Amount, now)
		if err != nil {
			return nil, err
		}
		m.record(domain.Transaction{
			ID:        txID,
			Kind:      domain.KindRequestSettlement,
			Amount:    request.Amount,
			Source:    &casa,
			Dest:      &personal,
			Category:  request.Category,
			Concept:   request.Concept,
			Timestamp: now,
			Actor:     admin,
			ResultingBalances: map[string]decimal.Decimal{
				casa.String():     casaBalance,
				personal.String(): userBalance,
			},
		})

		request.Status = domain.RequestApproved
		request.ResolvedAt = &now
		request.ResolvedBy = admin
		request.TransactionID = txID
		m.batch.Put(domain.RequestPath(id), request).ExpectValue(domain.RequestPath(id), requestRaw)
		m.request = request

		m.notify(newNotification(domain.NotifyRequestApproved, request.Requester, txID, amountPtr(request.Amount),
			fmt.Sprintf("Your request for %s (%s) was approved", request.Amount.StringFixed(2), request.Concept), now,
			map[string]string{"requestId": id, "transactionId": txID}))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return m.request, nil
}

func (s *requestService) reject(ctx context.Context, id string, admin domain.UserID, reason string) (*domain.Request, error) {
	if err := validateMinLength("reason", reason, minRejectReason); err != nil {
		return nil, err
	}

	m, err := s.commit(ctx, nil, func(ctx context.Context) (*mutation, error) {
		request, requestRaw, err := s.readPendingRequest(ctx, id)
		if err != nil {
			return nil, err
		}

		now := s.Now()
		request.Status = domain.RequestRejected
		request.ResolvedAt = &now
		request.ResolvedBy = admin
		request.RejectionReason = strings.TrimSpace(reason)

		m := newMutation()
		m.batch.Put(domain.RequestPath(id), request).ExpectValue(domain.RequestPath(id), requestRaw)
		m.request = request
		m.notify(newNotification(domain.NotifyRequestRejected, request.Requester, "reject-"+id, amountPtr(request.Amount),
			fmt.Sprintf("Your request for %s (%s) was rejected: %s", request.Amount.StringFixed(2), request.Concept, request.RejectionReason), now,
			map[string]string{"requestId": id}))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return m.request, nil
}

func (s *requestService) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	if err := validateID("request id", id); err != nil {
		return nil, err
	}
	request, _, err := s.readRequest(ctx, id)
	return request, err
}

// ListRequests returns requests newest first, optionally filtered by status.
func (s *requestService) ListRequests(ctx context.Context, params dto.ListRequestsParams) ([]domain.Request, error) {
	nodes, err := s.store.List(ctx, domain.RequestsPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Request, 0, len(nodes))
	for key, raw := range nodes {
		var r domain.Request
		if err := decodeNode(raw, &r); err != nil {
			s.LogError(ctx, err, "Skipping undecodable request", slog.String("request_id", key))
			continue
		}
		if params.Status != nil && r.Status != *params.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *requestService) readRequest(ctx context.Context, id string) (*domain.Request, []byte, error) {
	var r domain.Request
	raw, err := s.readNode(ctx, domain.RequestPath(id), &r)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: request %s", apperrors.ErrNotFound, id)
		}
		return nil, nil, err
	}
	return &r, raw, nil
}

func (s *requestService) readPendingRequest(ctx context.Context, id string) (*domain.Request, []byte, error) {
	r, raw, err := s.readRequest(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r.Status != domain.RequestPending {
		return nil, nil, apperrors.Validationf("request %s is already %s", id, r.Status)
	}
	return r, raw, nil
}
