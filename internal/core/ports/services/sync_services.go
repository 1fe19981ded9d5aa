package services

import (
	"context"
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

// SyncSvcFacade defines the offline queue and its replay engine.
type SyncSvcFacade interface {
	// EnqueueOrExecute runs the operation now when online, or persists it for later replay.
	EnqueueOrExecute(ctx context.Context, req dto.EnqueueOperationRequest, actor domain.UserID) (*dto.EnqueueResult, error)

	// ProcessQueue replays every eligible operation. Concurrent callers share one pass.
	ProcessQueue(ctx context.Context) (*dto.SyncBatchResult, error)

	// Sweep removes expired or exhausted entries and returns how many were dropped.
	Sweep(ctx context.Context) (int, error)

	// RetryOperation resets a failed entry to pending with a fresh retry budget.
	RetryOperation(ctx context.Context, id string) (*domain.QueuedOperation, error)

	ListOperations(ctx context.Context) ([]domain.QueuedOperation, error)
	Status(ctx context.Context) (*dto.QueueStatus, error)

	// Run replays the queue on every offline to online transition and sweeps every gcInterval.
	Run(ctx context.Context, gcInterval time.Duration)
}
