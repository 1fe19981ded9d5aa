package repositories

import (
	"context"
)

// Batch is one atomic multi-path write. Either every entry in Set is applied or none is.
type Batch struct {
	// Set maps a path to a JSON-encodable value. A nil value deletes the node.
	Set map[string]any
	// Expect lists preconditions checked inside the same atomic write: path -> raw value
	// previously returned by Get. A nil slice means the node must not exist.
	Expect map[string][]byte
}

// NewBatch returns an empty batch ready for use.
func NewBatch() *Batch {
	return &Batch{Set: map[string]any{}, Expect: map[string][]byte{}}
}

// Put stages a write.
func (b *Batch) Put(path string, value any) *Batch {
	b.Set[path] = value
	return b
}

// ExpectValue requires path to still hold raw when the batch commits.
func (b *Batch) ExpectValue(path string, raw []byte) *Batch {
	if raw == nil {
		raw = []byte{}
	}
	b.Expect[path] = raw
	return b
}

// ExpectAbsent requires path to be empty when the batch commits.
func (b *Batch) ExpectAbsent(path string) *Batch {
	b.Expect[path] = nil
	return b
}

// StoreReader defines read operations on the hierarchical path store.
type StoreReader interface {
	// Get returns the raw JSON value at path, or apperrors.ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns the direct children of prefix keyed by child key.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// StoreWriter defines the single write primitive of the store.
type StoreWriter interface {
	// Commit applies the batch atomically. A failed precondition yields apperrors.ErrConflict,
	// an unreachable backend apperrors.ErrTransport.
	Commit(ctx context.Context, batch *Batch) error
}

// StoreSubscriber defines push-based change delivery.
type StoreSubscriber interface {
	// Subscribe delivers the current value at path (nil when absent) and then every change,
	// until ctx is done, at which point the channel is closed.
	Subscribe(ctx context.Context, path string) (<-chan []byte, error)
}

// Store is the full backing-store contract the core relies on.
type Store interface {
	StoreReader
	StoreWriter
	StoreSubscriber
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
