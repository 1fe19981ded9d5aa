package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for pgx-backed adapters
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Rollback rolls back a transaction; it is a no-op once the transaction has been committed.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "rollback failed", "error", err)
	}
}
