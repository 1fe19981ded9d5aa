package domain

import (
	"encoding/json"
	"time"
)

// OperationType names the mutator a queued operation replays into.
type OperationType string

const (
	OpRequestCreate OperationType = "request-create"
	OpExpenseCreate OperationType = "expense-create"
)

// OperationStatus is the local sync state of a queued operation.
type OperationStatus string

const (
	OpPending OperationStatus = "pending"
	OpSyncing OperationStatus = "syncing"
	OpFailed  OperationStatus = "failed"
)

// DefaultMaxRetries bounds transport-class failures before an operation is parked as failed.
const DefaultMaxRetries = 3

// QueuedOperation is a deferred mutator call living only in the local durable queue.
type QueuedOperation struct {
	ID         string          `json:"id"`
	Type       OperationType   `json:"type"`
	Actor      UserID          `json:"actor"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Retries    int             `json:"retries"`
	MaxRetries int             `json:"maxRetries"`
	Status     OperationStatus `json:"status"`
	LastError  string          `json:"lastError,omitempty"`
}

// Replayable reports whether the sync engine should pick the operation up.
func (o QueuedOperation) Replayable() bool {
	return (o.Status == OpPending || o.Status == OpSyncing) && o.Retries < o.MaxRetries
}

// Exhausted reports whether the retry budget is spent.
func (o QueuedOperation) Exhausted() bool { return o.Retries >= o.MaxRetries }
