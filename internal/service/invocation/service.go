// Package invocation owns every write to the invocation state store and the
// journal. Each transition runs in one transaction under a per-user lock and
// fires the change notifier after commit.
package invocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/internal/notify"
)

type stateRepo interface {
	LockUser(ctx context.Context, userID uuid.UUID) error
	GetForUpdate(ctx context.Context, userID uuid.UUID, subjectID string) (*domain.InvocationState, error)
	DeactivateOthers(ctx context.Context, userID uuid.UUID, keepSubjectID string, now time.Time) ([]string, error)
	Activate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (*domain.InvocationState, error)
	Deactivate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (bool, error)
	ApplyOffering(ctx context.Context, userID uuid.UUID, subjectID string, invokedAt time.Time, now time.Time) error
	SetWishlisted(ctx context.Context, userID uuid.UUID, subjectID string, wishlisted bool, now time.Time) error
}

type journalRepo interface {
	Open(ctx context.Context, userID uuid.UUID, subjectID string, startedAt time.Time) (*domain.JournalEntry, error)
	CloseOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (int64, error)
	CloseLatestOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (bool, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type notifier interface {
	Publish(ctx context.Context, c notify.Change)
}

// Options are the lifecycle toggles from the ritual config section.
type Options struct {
	// CloseDisplacedJournal closes the open session of the subject that loses
	// the active slot on invoke.
	CloseDisplacedJournal bool
	// ExtendRequiresActive makes extend of a non-active subject a no-op.
	ExtendRequiresActive bool
}

// Service implements invoke, banish, extend and the wishlist toggle.
type Service struct {
	states   stateRepo
	journal  journalRepo
	audit    auditLogger
	tx       txManager
	notifier notifier
	clock    clockwork.Clock
	opts     Options
	log      *slog.Logger
}

// NewService creates a new invocation service.
func NewService(
	log *slog.Logger,
	clock clockwork.Clock,
	states stateRepo,
	journal journalRepo,
	audit auditLogger,
	tx txManager,
	notifier notifier,
	opts Options,
) *Service {
	return &Service{
		states:   states,
		journal:  journal,
		audit:    audit,
		tx:       tx,
		notifier: notifier,
		clock:    clock,
		opts:     opts,
		log:      log.With("service", "invocation"),
	}
}

// now returns the wall clock at storage precision.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID, subjectID string, action domain.AuditAction, at time.Time) {
	s.notifier.Publish(ctx, notify.Change{
		UserID:    userID,
		SubjectID: subjectID,
		Action:    action,
		Views:     domain.AllViews(),
		At:        at,
	})
}
