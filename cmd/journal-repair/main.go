// Command journal-repair closes open journal sessions whose subject is no
// longer active. Such rows come from invocations that were displaced before
// displaced sessions were closed on invoke. Active subjects are never
// touched: expiring them is the watchdog's job. It is intended to be run once
// after upgrading, or from an external cron job.
//
// Flags:
//
//	--older-than  only close sessions started before now minus this (default 24h)
//	--dry-run     report the cutoff without writing
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/journal"
	"github.com/heartmarshall/altar-backend/internal/app"
	"github.com/heartmarshall/altar-backend/internal/config"
)

func main() {
	olderThan := flag.Duration("older-than", 24*time.Hour, "only close sessions started before now minus this")
	dryRun := flag.Bool("dry-run", false, "report the cutoff without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Microsecond)
	cutoff := now.Add(-*olderThan)

	if *dryRun {
		logger.Info("dry run, nothing closed", slog.Time("cutoff", cutoff))
		return
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := journal.New(pool)

	closed, err := repo.CloseOrphaned(ctx, now, cutoff)
	if err != nil {
		logger.Error("journal repair failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		pool.Close()
		os.Exit(1)
	}

	logger.Info("journal repair completed",
		slog.Int64("closed", closed),
		slog.Time("cutoff", cutoff),
	)
}
