// Package memory is an in-process Store used by tests and offline development.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
)

const subscriberBuffer = 16

// Store keeps every node as its encoded JSON value. Commit checks all preconditions and
// applies all writes under one lock, so a batch is atomic.
type Store struct {
	mu    sync.RWMutex
	nodes map[string][]byte
	subs  map[string]map[int]chan []byte
	next  int

	unavailable bool
	faults      []error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes: map[string][]byte{},
		subs:  map[string]map[int]chan []byte{},
	}
}

var _ portsrepo.Store = (*Store)(nil)

// SetAvailable simulates the backend going away: every call fails with ErrTransport.
func (s *Store) SetAvailable(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = !ok
}

// FailNextCommits makes the next commits return errs in order without applying anything.
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, errs...)
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check(ctx)
}

func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	raw, ok := s.nodes[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	}
	return bytes.Clone(raw), nil
}

func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	out := map[string][]byte{}
	for path, raw := range s.nodes {
		key, ok := strings.CutPrefix(path, prefix)
		if !ok || key == "" || strings.Contains(key, "/") {
			continue
		}
		out[key] = bytes.Clone(raw)
	}
	return out, nil
}

func (s *Store) Commit(ctx context.Context, batch *portsrepo.Batch) error {
	encoded := make(map[string][]byte, len(batch.Set))
	for path, v := range batch.Set {
		if v == nil {
			encoded[path] = nil
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encoding %s: %v", apperrors.ErrInternal, path, err)
		}
		encoded[path] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if len(s.faults) > 0 {
		err := s.faults[0]
		s.faults = s.faults[1:]
		return err
	}

	for path, want := range batch.Expect {
		current, exists := s.nodes[path]
		switch {
		case want == nil && exists:
			return fmt.Errorf("%w: %s already exists", apperrors.ErrConflict, path)
		case want != nil && (!exists || !jsonEqual(current, want)):
			return fmt.Errorf("%w: %s changed", apperrors.ErrConflict, path)
		}
	}

	for path, raw := range encoded {
		if raw == nil {
			delete(s.nodes, path)
		} else {
			s.nodes[path] = raw
		}
		s.publish(path, raw)
	}
	return nil
}

// Subscribe delivers the current value and then every change. A subscriber that falls
// behind loses intermediate values but always ends up with the latest one.
func (s *Store) Subscribe(ctx context.Context, path string) (<-chan []byte, error) {
	s.mu.Lock()
	if err := s.check(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ch := make(chan []byte, subscriberBuffer)
	id := s.next
	s.next++
	if s.subs[path] == nil {
		s.subs[path] = map[int]chan []byte{}
	}
	s.subs[path][id] = ch
	ch <- bytes.Clone(s.nodes[path])
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs[path], id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}

// publish must be called with s.mu held.
func (s *Store) publish(path string, raw []byte) {
	for _, ch := range s.subs[path] {
		v := bytes.Clone(raw)
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if s.unavailable {
		return fmt.Errorf("%w: memory store unavailable", apperrors.ErrTransport)
	}
	return nil
}

// jsonEqual compares two encoded values semantically, matching the jsonb comparison the
// Postgres adapter performs.
func jsonEqual(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return bytes.Equal(ca, cb)
}
