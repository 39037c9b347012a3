package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueSlug returns a subject id that does not collide across parallel tests.
func UniqueSlug(prefix string) string {
	return prefix + "-" + uniqueSuffix()
}

// SeedSubject inserts a catalog subject with a unique id derived from name.
func SeedSubject(t *testing.T, pool *pgxpool.Pool, name string) domain.Subject {
	t.Helper()

	title := "Test " + name
	subject := domain.Subject{
		ID:        UniqueSlug(domain.NormalizeSubjectID(name)),
		Name:      name,
		Pantheon:  "norse",
		Title:     &title,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO subjects (id, name, pantheon, title, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		subject.ID, subject.Name, subject.Pantheon, subject.Title, subject.ImageURL, subject.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubject insert: %v", err)
	}

	return subject
}

// SeedState writes an invocation state row as-is, bypassing the service.
// A zero UpdatedAt is stored as the current time.
func SeedState(t *testing.T, pool *pgxpool.Pool, state domain.InvocationState) {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO invocation_states
		   (user_id, subject_id, active, invoked_at, last_offering_at, wishlisted, owned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		state.UserID, state.SubjectID, state.Active, state.InvokedAt, state.LastOfferingAt,
		state.Wishlisted, state.Owned, now, updatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedState insert: %v", err)
	}
}

// SeedOpenJournal inserts an open journal entry for the pair.
func SeedOpenJournal(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, subjectID string, startedAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO invocation_journal (id, user_id, subject_id, started_at) VALUES ($1, $2, $3, $4)`,
		id, userID, subjectID, startedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOpenJournal insert: %v", err)
	}

	return id
}

// CountOpenJournal returns how many open journal entries the pair has.
func CountOpenJournal(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, subjectID string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM invocation_journal WHERE user_id = $1 AND subject_id = $2 AND ended_at IS NULL`,
		userID, subjectID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: CountOpenJournal: %v", err)
	}

	return n
}
