package dto

import (
	"encoding/json"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// EnqueueOperationRequest submits a money-moving operation that may have to wait for connectivity.
type EnqueueOperationRequest struct {
	Type domain.OperationType `json:"type" binding:"required,oneof=request-create expense-create"`
	// ClientRef identifies one logical operation on the caller's side, e.g. a form submission id.
	// Two submissions with identical payloads are distinct operations only if their refs differ.
	ClientRef string          `json:"clientRef" binding:"required"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

// EnqueueResult reports whether the operation ran now or was queued.
type EnqueueResult struct {
	Queued      bool   `json:"queued"`
	OperationID string `json:"operationID"`
	// Result is the mutator's return value when the operation ran immediately.
	Result any `json:"result,omitempty"`
}

// SyncBatchResult counts one pass of the sync engine.
type SyncBatchResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// QueueStatus is a snapshot of the local queue.
type QueueStatus struct {
	Online  bool `json:"online"`
	Pending int  `json:"pending"`
	Syncing int  `json:"syncing"`
	Failed  int  `json:"failed"`
}
