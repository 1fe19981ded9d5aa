package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
)

const (
	changeChannel = "node_changes"

	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Store keeps the path tree in a single jsonb table. A batch is one pgx transaction:
// preconditions are checked under row locks, and writes guarded by "must be absent" use a
// plain INSERT so a concurrent creator surfaces as a unique violation.
type Store struct {
	BaseRepository
}

// NewStore creates a Store over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.Store = (*Store)(nil)

func (s *Store) Ping(ctx context.Context) error {
	if err := s.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx, `SELECT value FROM nodes WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	}
	if err != nil {
		return nil, mapError(err, "reading "+path)
	}
	return raw, nil
}

func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	rows, err := s.Pool.Query(ctx, `SELECT path, value FROM nodes WHERE parent = $1`, prefix)
	if err != nil {
		return nil, mapError(err, "listing "+prefix)
	}
	defer rows.Close()

	out := map[string][]byte{}
	for rows.Next() {
		var (
			path string
			raw  []byte
		)
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, mapError(err, "scanning "+prefix)
		}
		out[strings.TrimPrefix(path, prefix+"/")] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "listing "+prefix)
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

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return mapError(err, "begin")
	}
	defer s.Rollback(ctx, tx)

	// Locks are taken in path order so two batches over the same rows cannot deadlock.
	for _, path := range sortedKeys(batch.Expect) {
		if err := checkExpectation(ctx, tx, path, batch.Expect[path]); err != nil {
			return err
		}
	}

	for _, path := range sortedKeys(encoded) {
		raw := encoded[path]
		_, mustBeAbsent := batch.Expect[path]
		mustBeAbsent = mustBeAbsent && batch.Expect[path] == nil

		switch {
		case raw == nil:
			_, err = tx.Exec(ctx, `DELETE FROM nodes WHERE path = $1`, path)
		case mustBeAbsent:
			_, err = tx.Exec(ctx, `INSERT INTO nodes (path, parent, value) VALUES ($1, $2, $3::jsonb)`, path, parentOf(path), string(raw))
		default:
			_, err = tx.Exec(ctx, `
				INSERT INTO nodes (path, parent, value) VALUES ($1, $2, $3::jsonb)
				ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
				path, parentOf(path), string(raw))
		}
		if err != nil {
			return mapError(err, "writing "+path)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit")
	}
	return nil
}

func checkExpectation(ctx context.Context, tx pgx.Tx, path string, want []byte) error {
	var matches bool
	var err error
	if want == nil {
		err = tx.QueryRow(ctx, `SELECT true FROM nodes WHERE path = $1 FOR UPDATE`, path).Scan(&matches)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return mapError(err, "checking "+path)
		}
		return fmt.Errorf("%w: %s already exists", apperrors.ErrConflict, path)
	}

	if len(want) == 0 {
		// An empty precondition can never equal a stored JSON value.
		return fmt.Errorf("%w: %s changed", apperrors.ErrConflict, path)
	}

	err = tx.QueryRow(ctx, `SELECT value = $2::jsonb FROM nodes WHERE path = $1 FOR UPDATE`, path, string(want)).Scan(&matches)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s was removed", apperrors.ErrConflict, path)
	}
	if err != nil {
		return mapError(err, "checking "+path)
	}
	if !matches {
		return fmt.Errorf("%w: %s changed", apperrors.ErrConflict, path)
	}
	return nil
}

// Subscribe holds a dedicated connection listening on the change channel until ctx is done.
func (s *Store) Subscribe(ctx context.Context, path string) (<-chan []byte, error) {
	pooled, err := s.Pool.Acquire(ctx)
	if err != nil {
		return nil, mapError(err, "acquiring listener")
	}
	conn := pooled.Hijack()
	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		_ = conn.Close(context.Background())
		return nil, mapError(err, "listen")
	}

	current, err := s.Get(ctx, path)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		_ = conn.Close(context.Background())
		return nil, err
	}

	ch := make(chan []byte, 1)
	ch <- current
	go func() {
		defer close(ch)
		defer conn.Close(context.Background())
		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				return
			}
			if n.Payload != path {
				continue
			}
			value, err := s.Get(ctx, path)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return
			}
			select {
			case ch <- value:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// mapError sorts pgx failures into the store's error contract.
func mapError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, op, pgErr.Message)
		default:
			return fmt.Errorf("%w: %s: %v", apperrors.ErrInternal, op, err)
		}
	}
	// Anything that never reached the server: dial failures, timeouts, cancelled contexts.
	return fmt.Errorf("%w: %s: %v", apperrors.ErrTransport, op, err)
}

func parentOf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
