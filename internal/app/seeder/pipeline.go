package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// SubjectRepo is the catalog storage used by the pipeline.
// Implemented by subject.Repo.
type SubjectRepo interface {
	Upsert(ctx context.Context, s domain.Subject) error
	List(ctx context.Context, pantheon string) ([]domain.Subject, error)
}

// TxRunner runs fn in one transaction. Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result is the outcome of a seeding run.
type Result struct {
	Inserted int
	Updated  int
	Total    int
	Duration time.Duration
}

// Pipeline upserts a catalog in batches, one transaction per batch.
type Pipeline struct {
	log  *slog.Logger
	repo SubjectRepo
	tx   TxRunner
	cfg  Config
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo SubjectRepo, tx TxRunner, cfg Config) *Pipeline {
	return &Pipeline{log: log, repo: repo, tx: tx, cfg: cfg}
}

// Run validates the catalog and writes it. With DryRun nothing is written but
// the counts are still computed against the current catalog.
func (p *Pipeline) Run(ctx context.Context, c *Catalog) (Result, error) {
	start := time.Now()

	subjects, err := c.Subjects(start.UTC())
	if err != nil {
		return Result{}, fmt.Errorf("validate catalog: %w", err)
	}

	existing, err := p.repo.List(ctx, "")
	if err != nil {
		return Result{}, fmt.Errorf("list subjects: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s.ID] = true
	}

	res := Result{Total: len(subjects)}
	for _, s := range subjects {
		if known[s.ID] {
			res.Updated++
		} else {
			res.Inserted++
		}
	}

	if p.cfg.DryRun {
		res.Duration = time.Since(start)
		p.log.Info("dry run, catalog not written",
			slog.Int("inserted", res.Inserted),
			slog.Int("updated", res.Updated),
		)
		return res, nil
	}

	written, err := batchProcess(subjects, p.cfg.BatchSize, func(batch []domain.Subject) (int, error) {
		err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, s := range batch {
				if err := p.repo.Upsert(ctx, s); err != nil {
					return fmt.Errorf("upsert %s: %w", s.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
		return len(batch), nil
	})
	res.Duration = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("write catalog after %d subjects: %w", written, err)
	}

	p.log.Info("catalog seeded",
		slog.Int("inserted", res.Inserted),
		slog.Int("updated", res.Updated),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
