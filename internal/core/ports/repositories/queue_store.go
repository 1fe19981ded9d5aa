package repositories

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// QueueStore is the local durable store of offline operations. It must survive restarts.
type QueueStore interface {
	// Put creates or replaces the operation with the same id.
	Put(ctx context.Context, op domain.QueuedOperation) error

	// Get returns the operation or apperrors.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.QueuedOperation, error)

	// Delete removes the operation; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored operation ordered by enqueue time, then id.
	List(ctx context.Context) ([]domain.QueuedOperation, error)
}
