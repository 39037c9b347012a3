// Package subject implements the deity catalog repository using PostgreSQL.
package subject

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// Repo provides catalog persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new subject repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const subjectColumns = `id, name, pantheon, title, image_url, created_at`

const getByIDSQL = `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

type subjectRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Pantheon  string    `db:"pantheon"`
	Title     *string   `db:"title"`
	ImageURL  *string   `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

// GetByID returns a subject or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	var row subjectRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, getByIDSQL, id); err != nil {
		return nil, postgres.MapError(err, "subject", id)
	}

	s := row.toDomain()
	return &s, nil
}

// List returns the catalog, optionally filtered by pantheon, ordered by name.
func (r *Repo) List(ctx context.Context, pantheon string) ([]domain.Subject, error) {
	b := postgres.Builder().
		Select(subjectColumns).
		From("subjects").
		OrderBy("name", "id")
	if pantheon != "" {
		b = b.Where("pantheon = ?", pantheon)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build subjects query: %w", err)
	}

	var rows []subjectRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "subjects", pantheon)
	}

	out := make([]domain.Subject, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Upsert inserts the subject or refreshes its metadata. created_at is kept.
func (r *Repo) Upsert(ctx context.Context, s domain.Subject) error {
	query, args, err := postgres.Builder().
		Insert("subjects").
		Columns("id", "name", "pantheon", "title", "image_url", "created_at").
		Values(s.ID, s.Name, s.Pantheon, s.Title, s.ImageURL, s.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, pantheon = EXCLUDED.pantheon,
			    title = EXCLUDED.title, image_url = EXCLUDED.image_url`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build subject upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "subject", s.ID)
	}
	return nil
}

func (r subjectRow) toDomain() domain.Subject {
	return domain.Subject{
		ID:        r.ID,
		Name:      r.Name,
		Pantheon:  r.Pantheon,
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
	}
}
