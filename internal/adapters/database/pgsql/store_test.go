package pgsql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
)

func TestParentOf(t *testing.T) {
	assert.Equal(t, "accounts/personal", parentOf("accounts/personal/ana"))
	assert.Equal(t, "accounts", parentOf("accounts/casa"))
	assert.Equal(t, "", parentOf("root"))
}

func TestMapError(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key"}
	assert.ErrorIs(t, mapError(unique, "insert"), apperrors.ErrConflict)

	serialization := &pgconn.PgError{Code: pgSerializationFailure}
	assert.ErrorIs(t, mapError(serialization, "commit"), apperrors.ErrConflict)

	syntax := &pgconn.PgError{Code: "42601"}
	assert.ErrorIs(t, mapError(syntax, "query"), apperrors.ErrInternal)

	assert.ErrorIs(t, mapError(errors.New("dial tcp: connection refused"), "ping"), apperrors.ErrTransport)
	assert.ErrorIs(t, mapError(context.DeadlineExceeded, "get"), apperrors.ErrTransport)
}

func TestSortedKeys(t *testing.T) {
	keys := sortedKeys(map[string][]byte{"b": nil, "a": nil, "c": nil})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestSubscribe_UnreachableServerIsTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, "postgres://casa@127.0.0.1:1/casa?connect_timeout=1")
	require.NoError(t, err)
	defer pool.Close()

	_, err = NewStore(pool).Subscribe(ctx, "accounts/casa")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}
