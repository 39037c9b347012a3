// Package journal implements the append-only invocation journal using PostgreSQL.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// Repo provides journal persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new journal repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const entryColumns = `id, user_id, subject_id, started_at, ended_at`

const openSQL = `
INSERT INTO invocation_journal (id, user_id, subject_id, started_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + entryColumns

const closeOpenSQL = `
UPDATE invocation_journal
SET ended_at = GREATEST($3, started_at)
WHERE user_id = $1 AND subject_id = $2 AND ended_at IS NULL`

const closeLatestOpenSQL = `
UPDATE invocation_journal
SET ended_at = GREATEST($3, started_at)
WHERE id = (
    SELECT id FROM invocation_journal
    WHERE user_id = $1 AND subject_id = $2 AND ended_at IS NULL
    ORDER BY started_at DESC
    LIMIT 1
)`

const closeOrphanedSQL = `
UPDATE invocation_journal j
SET ended_at = GREATEST(j.started_at, LEAST($1, COALESCE((
    SELECT s.updated_at FROM invocation_states s
    WHERE s.user_id = j.user_id AND s.subject_id = j.subject_id
  ), $1)))
WHERE j.ended_at IS NULL
  AND j.started_at < $2
  AND NOT EXISTS (
    SELECT 1 FROM invocation_states s
    WHERE s.user_id = j.user_id AND s.subject_id = j.subject_id AND s.active
  )`

type entryRow struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	SubjectID string     `db:"subject_id"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Open appends a new open session for the pair. A second open entry for the
// same pair violates the partial unique index and yields domain.ErrAlreadyExists.
func (r *Repo) Open(ctx context.Context, userID uuid.UUID, subjectID string, startedAt time.Time) (*domain.JournalEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, openSQL, uuid.New(), userID, subjectID, startedAt); err != nil {
		return nil, postgres.MapError(err, "journal_entry", subjectID)
	}

	entry := row.toDomain()
	return &entry, nil
}

// CloseOpen closes every open session of the pair and returns how many were closed.
func (r *Repo) CloseOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := q.Exec(ctx, closeOpenSQL, userID, subjectID, endedAt)
	if err != nil {
		return 0, postgres.MapError(err, "journal_entry", subjectID)
	}

	return ct.RowsAffected(), nil
}

// CloseLatestOpen closes the most recent open session of the pair. It reports
// whether an entry was closed.
func (r *Repo) CloseLatestOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := q.Exec(ctx, closeLatestOpenSQL, userID, subjectID, endedAt)
	if err != nil {
		return false, postgres.MapError(err, "journal_entry", subjectID)
	}

	return ct.RowsAffected() > 0, nil
}

// CloseOrphaned closes open sessions started before olderThan whose state row
// is not active. ended_at is the state row's last update (when it was
// displaced), capped at endedAt; sessions without a state row end at endedAt.
// Active rows are never touched, so expiry stays with banish.
func (r *Repo) CloseOrphaned(ctx context.Context, endedAt, olderThan time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := q.Exec(ctx, closeOrphanedSQL, endedAt, olderThan)
	if err != nil {
		return 0, postgres.MapError(err, "journal", "orphaned")
	}

	return ct.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListBySubject returns the most recent sessions of the pair, newest first.
func (r *Repo) ListBySubject(ctx context.Context, userID uuid.UUID, subjectID string, limit int) ([]domain.JournalEntry, error) {
	query, args, err := postgres.Builder().
		Select(entryColumns).
		From("invocation_journal").
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).
		OrderBy("started_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "journal", subjectID)
	}

	entries := make([]domain.JournalEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.toDomain()
	}
	return entries, nil
}

func (r entryRow) toDomain() domain.JournalEntry {
	return domain.JournalEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		SubjectID: r.SubjectID,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}
}
