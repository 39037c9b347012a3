// Package app wires the configuration, storage, services and HTTP surface of
// the API server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/invocation"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/journal"
	"github.com/heartmarshall/altar-backend/internal/auth"
	"github.com/heartmarshall/altar-backend/internal/config"
	"github.com/heartmarshall/altar-backend/internal/notify"
	invocationsvc "github.com/heartmarshall/altar-backend/internal/service/invocation"
	"github.com/heartmarshall/altar-backend/internal/service/projection"
	"github.com/heartmarshall/altar-backend/internal/transport/middleware"
)

// subscriberBuffer is the per-subscriber queue of the change notifier.
const subscriberBuffer = 16

// Run is the server entry point. It blocks until ctx is cancelled and the
// HTTP server has drained.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Server.MigrateOnStart {
		if err := migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	clock := clockwork.NewRealClock()
	txm := postgres.NewTxManager(pool)

	states := invocation.New(pool)
	journalRepo := journal.New(pool)
	auditRepo := audit.New(pool)

	hub := notify.NewHub(logger, subscriberBuffer)
	defer hub.Close()

	invocations := invocationsvc.NewService(logger, clock, states, journalRepo, auditRepo, txm, hub, invocationsvc.Options{
		CloseDisplacedJournal: cfg.Ritual.CloseDisplacedJournal,
		ExtendRequiresActive:  cfg.Ritual.ExtendRequiresActive,
	})
	projections := projection.NewService(logger, clock, states, journalRepo, cfg.Ritual.HistoryMaxLimit)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(clock, cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := newRouter(routerDeps{
		cfg:         cfg,
		log:         logger,
		clock:       clock,
		db:          pool,
		hub:         hub,
		tokens:      tokens,
		limiter:     limiter,
		invocations: invocations,
		projections: projections,
	})

	srv := NewServer(cfg.Server, handler, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}

	logger.Info("application stopped")
	return nil
}

func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	m, err := postgres.NewMigrator(ctx, dsn, logger)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()

	applied, err := m.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", applied))
	return nil
}
