// Command migrate applies or rolls back the embedded schema migrations.
//
// Usage:
//
//	migrate [up|down|status|version]
//
// The database comes from the regular config (DATABASE_DSN or config.yaml).
// Exit codes: 0 = success, 1 = error, 2 = usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/app"
	"github.com/heartmarshall/altar-backend/internal/config"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	m, err := postgres.NewMigrator(ctx, cfg.Database.DSN, logger)
	if err != nil {
		logger.Error("open migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer m.Close()

	if err := run(ctx, m, command, logger); err != nil {
		logger.Error("migrate failed", slog.String("command", command), slog.String("error", err.Error()))
		cancel()
		m.Close()
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command, want up, down, status or version")

func run(ctx context.Context, m *postgres.Migrator, command string, logger *slog.Logger) error {
	switch command {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", slog.Int("count", n))
	case "down":
		res, err := m.Down(ctx)
		if err != nil {
			return err
		}
		logger.Info("migration rolled back", slog.Int64("version", res.Source.Version), slog.String("path", res.Source.Path))
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%05d  %-8s  %s  %s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
	case "version":
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Println(v)
	default:
		return errUsage
	}
	return nil
}
