// Package invocation implements the invocation state store using PostgreSQL.
// Every method is scoped by user_id and joins the transaction carried in ctx.
package invocation

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

// Repo provides invocation state persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new invocation state repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const (
	table = "invocation_states"

	stateColumns = `s.user_id, s.subject_id, s.active, s.invoked_at, s.last_offering_at,
	s.wishlisted, s.owned, s.created_at, s.updated_at`

	subjectColumns = `c.id AS c_id, c.name AS c_name, c.pantheon AS c_pantheon,
	c.title AS c_title, c.image_url AS c_image_url, c.created_at AS c_created_at`
)

// Transaction-scoped advisory lock keyed by the user id. Every mutating
// transaction takes it first, so transitions of one user are serialised.
const lockUserSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

const getForUpdateSQL = `
SELECT ` + stateColumns + `
FROM invocation_states s
WHERE s.user_id = $1 AND s.subject_id = $2
FOR UPDATE`

const getActiveSQL = `
SELECT ` + stateColumns + `, ` + subjectColumns + `
FROM invocation_states s
JOIN subjects c ON c.id = s.subject_id
WHERE s.user_id = $1 AND s.active`

const deactivateOthersSQL = `
UPDATE invocation_states
SET active = false, updated_at = $3
WHERE user_id = $1 AND active AND subject_id <> $2
RETURNING subject_id`

const deactivateSQL = `
UPDATE invocation_states
SET active = false, updated_at = $3
WHERE user_id = $1 AND subject_id = $2 AND active`

// ---------------------------------------------------------------------------
// Row types
// ---------------------------------------------------------------------------

type stateRow struct {
	UserID         uuid.UUID  `db:"user_id"`
	SubjectID      string     `db:"subject_id"`
	Active         bool       `db:"active"`
	InvokedAt      *time.Time `db:"invoked_at"`
	LastOfferingAt *time.Time `db:"last_offering_at"`
	Wishlisted     bool       `db:"wishlisted"`
	Owned          bool       `db:"owned"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type joinedRow struct {
	UserID         uuid.UUID  `db:"user_id"`
	SubjectID      string     `db:"subject_id"`
	Active         bool       `db:"active"`
	InvokedAt      *time.Time `db:"invoked_at"`
	LastOfferingAt *time.Time `db:"last_offering_at"`
	Wishlisted     bool       `db:"wishlisted"`
	Owned          bool       `db:"owned"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`

	CID        string    `db:"c_id"`
	CName      string    `db:"c_name"`
	CPantheon  string    `db:"c_pantheon"`
	CTitle     *string   `db:"c_title"`
	CImageURL  *string   `db:"c_image_url"`
	CCreatedAt time.Time `db:"c_created_at"`
}

// ---------------------------------------------------------------------------
// Locking
// ---------------------------------------------------------------------------

// LockUser takes the per-user transaction lock. It is released at commit or
// rollback and must be called inside a transaction.
func (r *Repo) LockUser(ctx context.Context, userID uuid.UUID) error {
	if !postgres.InTx(ctx) {
		return fmt.Errorf("lock user %s: not in a transaction", userID)
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, lockUserSQL, userID.String()); err != nil {
		return postgres.MapError(err, "user_lock", userID.String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetForUpdate returns the state of a pair and locks the row until the end
// of the transaction. Returns domain.ErrNotFound if the row does not exist.
func (r *Repo) GetForUpdate(ctx context.Context, userID uuid.UUID, subjectID string) (*domain.InvocationState, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row stateRow
	if err := pgxscan.Get(ctx, q, &row, getForUpdateSQL, userID, subjectID); err != nil {
		return nil, postgres.MapError(err, "invocation_state", subjectID)
	}

	state := row.toDomain()
	return &state, nil
}

// GetActive returns the active state of the user joined with its subject.
// Returns domain.ErrNotFound if nothing is invoked.
func (r *Repo) GetActive(ctx context.Context, userID uuid.UUID) (*domain.SubjectState, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row joinedRow
	if err := pgxscan.Get(ctx, q, &row, getActiveSQL, userID); err != nil {
		return nil, postgres.MapError(err, "active_invocation", userID.String())
	}

	ss := row.toDomain()
	return &ss, nil
}

// ListRoster returns wishlisted, non-active subjects, most recently touched first.
func (r *Repo) ListRoster(ctx context.Context, userID uuid.UUID) ([]domain.SubjectState, error) {
	query, args, err := postgres.Builder().
		Select(stateColumns, subjectColumns).
		From(table + " s").
		Join("subjects c ON c.id = s.subject_id").
		Where(squirrel.Eq{"s.user_id": userID, "s.wishlisted": true, "s.active": false}).
		OrderBy("s.updated_at DESC", "s.subject_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build roster query: %w", err)
	}

	var rows []joinedRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "roster", userID.String())
	}

	out := make([]domain.SubjectState, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// DeactivateOthers clears the active flag of every row of the user except
// keepSubjectID and returns the displaced subject ids.
func (r *Repo) DeactivateOthers(ctx context.Context, userID uuid.UUID, keepSubjectID string, now time.Time) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, deactivateOthersSQL, userID, keepSubjectID, now)
	if err != nil {
		return nil, postgres.MapError(err, "invocation_state", userID.String())
	}
	defer rows.Close()

	var displaced []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, postgres.MapError(err, "invocation_state", userID.String())
		}
		displaced = append(displaced, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "invocation_state", userID.String())
	}

	return displaced, nil
}

// Activate upserts the pair as the active invocation started at now and
// puts it on the wishlist.
func (r *Repo) Activate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (*domain.InvocationState, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "subject_id", "active", "invoked_at", "wishlisted", "created_at", "updated_at").
		Values(userID, subjectID, true, now, true, now, now).
		Suffix(`ON CONFLICT (user_id, subject_id) DO UPDATE
			SET active = true, invoked_at = EXCLUDED.invoked_at, wishlisted = true, updated_at = EXCLUDED.updated_at
			RETURNING user_id, subject_id, active, invoked_at, last_offering_at, wishlisted, owned, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activate query: %w", err)
	}

	var row stateRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "invocation_state", subjectID)
	}

	state := row.toDomain()
	return &state, nil
}

// Deactivate clears the active flag of the pair. It reports whether a row
// changed; a missing or already inactive row is not an error.
func (r *Repo) Deactivate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := q.Exec(ctx, deactivateSQL, userID, subjectID, now)
	if err != nil {
		return false, postgres.MapError(err, "invocation_state", subjectID)
	}

	return ct.RowsAffected() > 0, nil
}

// ApplyOffering moves invoked_at to the extended start and stamps the offering.
func (r *Repo) ApplyOffering(ctx context.Context, userID uuid.UUID, subjectID string, invokedAt, now time.Time) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("invoked_at", invokedAt).
		Set("last_offering_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build offering query: %w", err)
	}

	ct, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "invocation_state", subjectID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("invocation_state %s: %w", subjectID, domain.ErrNotFound)
	}

	return nil
}

// SetWishlisted upserts the wishlist flag of the pair.
func (r *Repo) SetWishlisted(ctx context.Context, userID uuid.UUID, subjectID string, wishlisted bool, now time.Time) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "subject_id", "wishlisted", "created_at", "updated_at").
		Values(userID, subjectID, wishlisted, now, now).
		Suffix(`ON CONFLICT (user_id, subject_id) DO UPDATE
			SET wishlisted = EXCLUDED.wishlisted, updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build wishlist query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "invocation_state", subjectID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func (r stateRow) toDomain() domain.InvocationState {
	return domain.InvocationState{
		UserID:         r.UserID,
		SubjectID:      r.SubjectID,
		Active:         r.Active,
		InvokedAt:      r.InvokedAt,
		LastOfferingAt: r.LastOfferingAt,
		Wishlisted:     r.Wishlisted,
		Owned:          r.Owned,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r joinedRow) toDomain() domain.SubjectState {
	return domain.SubjectState{
		State: stateRow{
			UserID:         r.UserID,
			SubjectID:      r.SubjectID,
			Active:         r.Active,
			InvokedAt:      r.InvokedAt,
			LastOfferingAt: r.LastOfferingAt,
			Wishlisted:     r.Wishlisted,
			Owned:          r.Owned,
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
		}.toDomain(),
		Subject: domain.Subject{
			ID:        r.CID,
			Name:      r.CName,
			Pantheon:  r.CPantheon,
			Title:     r.CTitle,
			ImageURL:  r.CImageURL,
			CreatedAt: r.CCreatedAt,
		},
	}
}
