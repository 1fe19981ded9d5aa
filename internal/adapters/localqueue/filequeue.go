// Package localqueue persists offline operations on the local disk so they survive restarts.
package localqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
)

const snapshotVersion = 1

type snapshot struct {
	Version    int                               `json:"version"`
	Operations map[string]domain.QueuedOperation `json:"operations"`
	UpdatedAt  time.Time                         `json:"updatedAt"`
}

// FileQueue keeps the whole queue in memory and rewrites a JSON snapshot on every change.
// The snapshot is written to a temp file, synced and renamed over the old one, so a crash
// leaves either the previous or the new queue on disk.
type FileQueue struct {
	mu   sync.RWMutex
	path string
	snap snapshot
}

var _ portsrepo.QueueStore = (*FileQueue)(nil)

// OpenFileQueue loads the queue at path, creating an empty one when the file does not exist.
func OpenFileQueue(path string) (*FileQueue, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	q := &FileQueue{path: path}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *FileQueue) load() error {
	raw, err := os.ReadFile(q.path)
	if os.IsNotExist(err) || (err == nil && len(raw) == 0) {
		q.snap = snapshot{Version: snapshotVersion, Operations: map[string]domain.QueuedOperation{}, UpdatedAt: time.Now().UTC()}
		return q.flushLocked()
	}
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decoding queue file %s: %w", q.path, err)
	}
	if snap.Operations == nil {
		snap.Operations = map[string]domain.QueuedOperation{}
	}
	q.snap = snap
	return nil
}

func (q *FileQueue) flushLocked() error {
	data, err := json.MarshalIndent(q.snap, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(q.path), filepath.Base(q.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), q.path)
}

// withWrite applies fn and persists the result; if persisting fails the change is rolled back.
func (q *FileQueue) withWrite(ctx context.Context, fn func(ops map[string]domain.QueuedOperation) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	before := maps.Clone(q.snap.Operations)
	if err := fn(q.snap.Operations); err != nil {
		return err
	}
	q.snap.UpdatedAt = time.Now().UTC()
	if err := q.flushLocked(); err != nil {
		q.snap.Operations = before
		return fmt.Errorf("persisting queue: %w", err)
	}
	return nil
}

func (q *FileQueue) withRead(fn func(ops map[string]domain.QueuedOperation)) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	fn(q.snap.Operations)
}

func (q *FileQueue) Put(ctx context.Context, op domain.QueuedOperation) error {
	return q.withWrite(ctx, func(ops map[string]domain.QueuedOperation) error {
		ops[op.ID] = op
		return nil
	})
}

func (q *FileQueue) Get(ctx context.Context, id string) (*domain.QueuedOperation, error) {
	var (
		out   domain.QueuedOperation
		found bool
	)
	q.withRead(func(ops map[string]domain.QueuedOperation) {
		out, found = ops[id]
	})
	if !found {
		return nil, fmt.Errorf("%w: queued operation %s", apperrors.ErrNotFound, id)
	}
	return &out, nil
}

func (q *FileQueue) Delete(ctx context.Context, id string) error {
	return q.withWrite(ctx, func(ops map[string]domain.QueuedOperation) error {
		delete(ops, id)
		return nil
	})
}

// List returns operations in enqueue order, ties broken by id.
func (q *FileQueue) List(ctx context.Context) ([]domain.QueuedOperation, error) {
	var out []domain.QueuedOperation
	q.withRead(func(ops map[string]domain.QueuedOperation) {
		out = make([]domain.QueuedOperation, 0, len(ops))
		for _, op := range ops {
			out = append(out, op)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnqueuedAt.Equal(out[j].EnqueuedAt) {
			return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
