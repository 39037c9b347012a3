// Command seeder loads the deity catalog from a YAML file into the subjects
// table. Existing subjects are updated in place; subjects missing from the
// file are left alone.
//
// Flags:
//
//	--catalog        path to the catalog YAML (overrides the seeder config)
//	--dry-run        validate and count without writing to DB
//	--seeder-config  path to seeder YAML config file
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
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/subject"
	"github.com/heartmarshall/altar-backend/internal/app"
	"github.com/heartmarshall/altar-backend/internal/app/seeder"
	"github.com/heartmarshall/altar-backend/internal/config"
)

// Compile-time interface assertions.
var (
	_ seeder.SubjectRepo = (*subject.Repo)(nil)
	_ seeder.TxRunner    = (*postgres.TxManager)(nil)
)

func main() {
	catalogFlag := flag.String("catalog", "", "path to the catalog YAML")
	dryRunFlag := flag.Bool("dry-run", false, "validate and count without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *catalogFlag != "" {
		seederCfg.CatalogPath = *catalogFlag
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}
	if seederCfg.CatalogPath == "" {
		logger.Error("no catalog: pass --catalog or set SEEDER_CATALOG_PATH")
		os.Exit(1)
	}

	catalog, err := seeder.LoadCatalog(seederCfg.CatalogPath)
	if err != nil {
		logger.Error("load catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	repo := subject.New(pool)

	pipeline := seeder.NewPipeline(logger, repo, txm, *seederCfg)
	res, err := pipeline.Run(ctx, catalog)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}

	logger.Info("seeding completed successfully",
		slog.Int("total", res.Total),
		slog.Bool("dry_run", seederCfg.DryRun),
	)
}
