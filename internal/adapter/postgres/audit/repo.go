// Package audit implements the audit trail repository using PostgreSQL.
// It provides append-only operations for lifecycle transition records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const recordColumns = `id, user_id, subject_id, action, changes, created_at`

type recordRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	SubjectID string    `db:"subject_id"`
	Action    string    `db:"action"`
	Changes   []byte    `db:"changes"`
	CreatedAt time.Time `db:"created_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends an audit record. A zero ID or CreatedAt is filled in.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	if !record.Action.IsValid() {
		return domain.NewValidationError("action", "unknown audit action")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	var changes []byte
	if len(record.Changes) > 0 {
		var err error
		if changes, err = json.Marshal(record.Changes); err != nil {
			return fmt.Errorf("audit_record marshal changes: %w", err)
		}
	}

	query, args, err := postgres.Builder().
		Insert("audit_log").
		Columns("id", "user_id", "subject_id", "action", "changes", "created_at").
		Values(record.ID, record.UserID, record.SubjectID, record.Action.String(), changes, record.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "audit_record", record.ID.String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByUser returns the newest audit records of a user, optionally
// narrowed to one subject.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, subjectID string, limit int) ([]domain.AuditRecord, error) {
	where := squirrel.Eq{"user_id": userID}
	if subjectID != "" {
		where["subject_id"] = subjectID
	}

	query, args, err := postgres.Builder().
		Select(recordColumns).
		From("audit_log").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	var rows []recordRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "audit_records", userID.String())
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// toDomain converts a row into a domain.AuditRecord, decoding the JSONB changes.
func (r recordRow) toDomain() (domain.AuditRecord, error) {
	record := domain.AuditRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		SubjectID: r.SubjectID,
		Action:    domain.AuditAction(r.Action),
		CreatedAt: r.CreatedAt,
	}

	if len(r.Changes) > 0 {
		changes := make(map[string]any)
		if err := json.Unmarshal(r.Changes, &changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %s unmarshal changes: %w", r.ID, err)
		}
		record.Changes = changes
	}

	return record, nil
}
