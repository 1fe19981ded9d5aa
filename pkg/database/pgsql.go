package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName     = "casa-ledger"
	healthCheckInterval = 30 * time.Second
)

// NewPgxPool opens the pool behind the Postgres store. The store holds one extra connection
// for its LISTEN subscription, so callers should leave headroom in pool_max_conns.
// With checkConnection set the pool is pinged before it is returned.
func NewPgxPool(ctx context.Context, databaseURL string, checkConnection bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if _, set := cfg.ConnConfig.RuntimeParams["application_name"]; !set {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	cfg.HealthCheckPeriod = healthCheckInterval

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if !checkConnection {
		return pool, nil
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	slog.Info("Connected to PostgreSQL", slog.String("database", cfg.ConnConfig.Database), slog.Int("max_conns", int(cfg.MaxConns)))
	return pool, nil
}
