package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/SscSPs/casa_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/casa_ledger/internal/adapters/localqueue"
	"github.com/SscSPs/casa_ledger/internal/adapters/lock"
	"github.com/SscSPs/casa_ledger/internal/adapters/memory"
	"github.com/SscSPs/casa_ledger/internal/adapters/notify"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/core/services"
	"github.com/SscSPs/casa_ledger/internal/handlers"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/SscSPs/casa_ledger/internal/platform/config"
	"github.com/SscSPs/casa_ledger/internal/platform/connectivity"
	"github.com/SscSPs/casa_ledger/internal/platform/events"
	"github.com/SscSPs/casa_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Casa Ledger API
// @version 1.0
// @description Shared household ledger: Casa and personal balances, spend requests, recurring expenses and offline sync.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	if dir := filepath.Dir(cfg.QueueFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Failed to create queue directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	queue, err := localqueue.OpenFileQueue(cfg.QueueFile)
	if err != nil {
		logger.Error("Failed to open offline queue", slog.String("error", err.Error()), slog.String("path", cfg.QueueFile))
		os.Exit(1)
	}

	monitor := connectivity.NewMonitor(store, cfg.ConnectivityProbeInterval, store.Ping(ctx) == nil)

	deps := services.Dependencies{
		Store:           store,
		Queue:           queue,
		Connectivity:    monitor,
		Bus:             events.NewBus(),
		Dispatcher:      newDispatcher(cfg, logger),
		DispatchTimeout: cfg.NotifyDispatchTimeout,
		Scheduler:       services.SchedulerConfig{LockTTL: cfg.SchedulerLockTTL},
		Sync:            services.SyncConfig{MaxRetries: cfg.QueueMaxRetries, MaxAge: cfg.QueueMaxAge},
	}
	if cfg.RedisAddress != "" {
		locker, rdb, err := lock.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			logger.Warn("Redis unavailable, scheduler guard stays in-process", slog.String("error", err.Error()))
		} else {
			defer rdb.Close()
			deps.Scheduler.Locker = locker
			logger.Info("Scheduler guard backed by redis", slog.String("address", cfg.RedisAddress))
		}
	}

	container, err := services.NewServiceContainer(deps)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := container.Account.EnsureCasa(ctx); err != nil {
		logger.Warn("Could not ensure Casa account exists", slog.String("error", err.Error()))
	}

	go monitor.Run(ctx)
	go container.Sync.Run(ctx, cfg.QueueGCInterval)
	go container.Scheduler.Run(ctx, cfg.SchedulerInterval)
	go logQueueEvents(ctx, deps.Bus)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, newRateLimiter(cfg, logger))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return memory.NewStore(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	return pgsql.NewStore(dbPool), dbPool.Close, nil
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func newDispatcher(cfg *config.Config, logger *slog.Logger) portssvc.Dispatcher {
	if cfg.NotifyDispatchURL == "" {
		logger.Info("NOTIFY_DISPATCH_URL not set, notifications are stored only")
		return notify.NoopDispatcher{}
	}
	return notify.NewHTTPDispatcher(cfg.NotifyDispatchURL, cfg.NotifyDispatchToken, cfg.JWTSecret, &http.Client{Timeout: cfg.NotifyDispatchTimeout})
}

func newRateLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		return nil
	}
	return limiter.New(limitermemory.NewStore(), rate)
}

func logQueueEvents(ctx context.Context, bus *events.Bus) {
	logger := middleware.GetLoggerFromCtx(ctx).With("component", "events")
	for ev := range bus.Subscribe(ctx) {
		switch e := ev.(type) {
		case events.QueueChanged:
			logger.Info("Queue changed", slog.Int("pending", e.Pending), slog.Int("failed", e.Failed))
		case events.SyncBatchCompleted:
			logger.Info("Sync batch completed", slog.Int("processed", e.Processed), slog.Int("failed", e.Failed), slog.Int("total", e.Total))
		}
	}
}
