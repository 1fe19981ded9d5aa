package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/SscSPs/casa_ledger/internal/platform/events"
)

// DefaultQueueMaxAge is how long an entry may sit in the local queue before the sweep drops it.
const DefaultQueueMaxAge = 30 * 24 * time.Hour

// SyncConfig tunes the offline queue.
type SyncConfig struct {
	MaxRetries int
	MaxAge     time.Duration
}

// syncService owns the local queue: it executes operations directly while online, parks
// them while offline, and replays them with bounded retries once connectivity returns.
type syncService struct {
	BaseService
	queue    portsrepo.QueueStore
	conn     portssvc.Connectivity
	bus      *events.Bus
	accounts portssvc.AccountReaderSvc
	requests portssvc.RequestWriterSvc
	ledger   portssvc.LedgerWriterSvc
	schemas  payloadSchemas
	flight   singleflight.Group

	maxRetries int
	maxAge     time.Duration
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// operationPayload is the queued form of both operation types. An expense always debits
// the actor's own account; a request is always raised by the actor.
type operationPayload struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Concept  string          `json:"concept"`
}

func (s *syncService) EnqueueOrExecute(ctx context.Context, req dto.EnqueueOperationRequest, actor domain.UserID) (*dto.EnqueueResult, error) {
	if err := domain.Personal(actor).Validate(); err != nil {
		return nil, apperrors.Validationf("actor: %v", err)
	}
	clientRef := strings.TrimSpace(req.ClientRef)
	if clientRef == "" {
		return nil, apperrors.Validationf("clientRef is required to tell repeated submissions apart")
	}
	payload, err := compactPayload(req.Payload)
	if err != nil {
		return nil, err
	}
	if err := s.schemas.validate(req.Type, payload); err != nil {
		return nil, err
	}

	op := domain.QueuedOperation{
		ID:         domain.OperationID(req.Type, actor, clientRef, payload),
		Type:       req.Type,
		Actor:      actor,
		Payload:    payload,
		EnqueuedAt: s.Now(),
		MaxRetries: s.maxRetries,
		Status:     domain.OpPending,
	}
	logger := s.GetLogger(ctx).With(slog.String("operation_id", op.ID), slog.String("type", string(op.Type)))

	if s.conn.Online() {
		result, err := s.execute(ctx, op)
		if err == nil {
			return &dto.EnqueueResult{Queued: false, OperationID: op.ID, Result: result}, nil
		}
		if apperrors.Classify(err) != apperrors.KindTransport {
			return nil, err
		}
		// The outcome is unknown; park it so the replay settles it under the same id.
		logger.Warn("Direct execution hit a transport error, queueing", slog.String("error", err.Error()))
	}

	existing, err := s.queue.Get(ctx, op.ID)
	if err == nil {
		logger.Info("Operation already queued")
		return &dto.EnqueueResult{Queued: true, OperationID: existing.ID}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err := s.queue.Put(ctx, op); err != nil {
		logger.Error("Failed to persist queued operation", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Operation queued for replay")
	s.publishQueueChanged(ctx)
	return &dto.EnqueueResult{Queued: true, OperationID: op.ID}, nil
}

// ProcessQueue collapses concurrent triggers into the pass already in flight. The pass is
// shared, so it runs detached from the cancellation of whichever caller started it.
func (s *syncService) ProcessQueue(ctx context.Context) (*dto.SyncBatchResult, error) {
	if !s.conn.Online() {
		return nil, fmt.Errorf("%w: store is offline, queue left untouched", apperrors.ErrTransport)
	}
	v, err, shared := s.flight.Do("process-queue", func() (any, error) {
		return s.processQueue(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.LogDebug(ctx, "Joined in-flight sync pass")
	}
	result := v.(dto.SyncBatchResult)
	return &result, nil
}

func (s *syncService) processQueue(ctx context.Context) (dto.SyncBatchResult, error) {
	ops, err := s.queue.List(ctx)
	if err != nil {
		return dto.SyncBatchResult{}, err
	}
	eligible := make([]domain.QueuedOperation, 0, len(ops))
	for _, op := range ops {
		if op.Replayable() {
			eligible = append(eligible, op)
		}
	}

	result := dto.SyncBatchResult{Total: len(eligible)}
	for _, op := range eligible {
		logger := s.GetLogger(ctx).With(slog.String("operation_id", op.ID))

		op.Status = domain.OpSyncing
		if err := s.queue.Put(ctx, op); err != nil {
			logger.Error("Failed to mark operation syncing", slog.String("error", err.Error()))
			result.Failed++
			continue
		}

		err := s.replay(ctx, op)
		if err == nil {
			if err := s.queue.Delete(ctx, op.ID); err != nil {
				logger.Error("Replayed operation could not be removed from queue", slog.String("error", err.Error()))
			}
			result.Processed++
			logger.Info("Queued operation replayed")
			continue
		}

		result.Failed++
		s.recordFailure(&op, err)
		logger.Warn("Queued operation failed",
			slog.String("error", err.Error()),
			slog.String("status", string(op.Status)),
			slog.Int("retries", op.Retries))
		if err := s.queue.Put(ctx, op); err != nil {
			logger.Error("Failed to persist operation failure", slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Sync batch completed",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed),
		slog.Int("total", result.Total))
	s.bus.Publish(events.SyncBatchCompleted{Processed: result.Processed, Failed: result.Failed, Total: result.Total})
	s.publishQueueChanged(ctx)
	return result, nil
}

// recordFailure sorts a replay error into its retry bucket.
func (s *syncService) recordFailure(op *domain.QueuedOperation, err error) {
	op.LastError = err.Error()
	switch apperrors.Classify(err) {
	case apperrors.KindInsufficientFunds:
		// Retried indefinitely without touching the budget.
		op.Status = domain.OpPending
	case apperrors.KindValidation, apperrors.KindNotFound:
		op.Status = domain.OpFailed
	default:
		op.Retries++
		if op.Exhausted() {
			op.Status = domain.OpFailed
		} else {
			op.Status = domain.OpPending
		}
	}
}

// replay re-validates the payload and calls the mutator with the operation id threaded through.
func (s *syncService) replay(ctx context.Context, op domain.QueuedOperation) error {
	if err := s.schemas.validate(op.Type, op.Payload); err != nil {
		return err
	}
	if op.Type == domain.OpRequestCreate {
		var p operationPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return apperrors.Validationf("decoding payload: %v", err)
		}
		casa, err := s.accounts.GetAccount(ctx, domain.Casa())
		if err != nil {
			return err
		}
		if casa.Balance.LessThan(p.Amount) {
			return fmt.Errorf("%w: casa holds %s, request needs %s", apperrors.ErrInsufficientFunds,
				casa.Balance.StringFixed(2), p.Amount.StringFixed(2))
		}
	}
	_, err := s.execute(ctx, op)
	return err
}

// execute dispatches to the mutator behind the operation type.
func (s *syncService) execute(ctx context.Context, op domain.QueuedOperation) (any, error) {
	switch op.Type {
	case domain.OpRequestCreate:
		var p operationPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return nil, apperrors.Validationf("decoding payload: %v", err)
		}
		return s.requests.CreateRequest(ctx, dto.CreateRequestRequest{
			ID:       op.ID,
			Amount:   p.Amount,
			Category: p.Category,
			Concept:  p.Concept,
		}, op.Actor)
	case domain.OpExpenseCreate:
		var p operationPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return nil, apperrors.Validationf("decoding payload: %v", err)
		}
		return s.ledger.PersonalExpense(ctx, dto.PersonalExpenseRequest{
			User:     op.Actor,
			Amount:   p.Amount,
			Category: p.Category,
			Concept:  p.Concept,
			TxID:     op.ID,
		}, op.Actor)
	default:
		return nil, apperrors.Validationf("unknown operation type %q", op.Type)
	}
}

// Sweep drops entries older than the max age and entries whose retry budget is spent.
func (s *syncService) Sweep(ctx context.Context) (int, error) {
	ops, err := s.queue.List(ctx)
	if err != nil {
		return 0, err
	}
	now := s.Now()
	removed := 0
	for _, op := range ops {
		if now.Sub(op.EnqueuedAt) <= s.maxAge && !op.Exhausted() {
			continue
		}
		if err := s.queue.Delete(ctx, op.ID); err != nil {
			s.LogError(ctx, err, "Failed to sweep queued operation", slog.String("operation_id", op.ID))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.LogInfo(ctx, "Swept local queue", slog.Int("removed", removed))
		s.publishQueueChanged(ctx)
	}
	return removed, nil
}

// RetryOperation gives a failed entry a fresh retry budget.
func (s *syncService) RetryOperation(ctx context.Context, id string) (*domain.QueuedOperation, error) {
	op, err := s.queue.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if op.Status != domain.OpFailed {
		return nil, apperrors.Validationf("operation %s is %s, only failed operations can be retried", id, op.Status)
	}
	op.Status = domain.OpPending
	op.Retries = 0
	op.LastError = ""
	if err := s.queue.Put(ctx, *op); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Queued operation reset for retry", slog.String("operation_id", id))
	s.publishQueueChanged(ctx)
	return op, nil
}

func (s *syncService) ListOperations(ctx context.Context) ([]domain.QueuedOperation, error) {
	return s.queue.List(ctx)
}

func (s *syncService) Status(ctx context.Context) (*dto.QueueStatus, error) {
	ops, err := s.queue.List(ctx)
	if err != nil {
		return nil, err
	}
	status := &dto.QueueStatus{Online: s.conn.Online()}
	for _, op := range ops {
		switch op.Status {
		case domain.OpPending:
			status.Pending++
		case domain.OpSyncing:
			status.Syncing++
		case domain.OpFailed:
			status.Failed++
		}
	}
	return status, nil
}

// Run replays on every offline to online transition and sweeps on gcInterval.
func (s *syncService) Run(ctx context.Context, gcInterval time.Duration) {
	ctx = middleware.WithLogger(ctx, s.GetLogger(ctx).With(slog.String("component", "sync")))
	transitions := s.conn.Subscribe(ctx)
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	if _, err := s.Sweep(ctx); err != nil {
		s.LogError(ctx, err, "Initial queue sweep failed")
	}
	if s.conn.Online() {
		s.runPass(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-transitions:
			if !ok {
				return
			}
			if online {
				s.runPass(ctx)
			}
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.LogError(ctx, err, "Queue sweep failed")
			}
		}
	}
}

func (s *syncService) runPass(ctx context.Context) {
	if _, err := s.ProcessQueue(ctx); err != nil {
		s.LogError(ctx, err, "Sync pass failed")
	}
}

func (s *syncService) publishQueueChanged(ctx context.Context) {
	status, err := s.Status(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read queue status")
		return
	}
	s.bus.Publish(events.QueueChanged{Pending: status.Pending + status.Syncing, Failed: status.Failed})
}

// compactPayload normalises whitespace so the same logical payload always hashes to the same id.
func compactPayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, apperrors.Validationf("payload is required")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.Validationf("payload is not valid JSON: %v", err)
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Validationf("payload: %v", err)
	}
	return canonical, nil
}
