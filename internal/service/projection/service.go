// Package projection serves the read models of the ritual: the active
// invocation, the roster, the journal history and the combined overview.
package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

// DefaultHistoryLimit is used when the caller does not ask for a limit.
const DefaultHistoryLimit = 20

type stateReader interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.SubjectState, error)
	ListRoster(ctx context.Context, userID uuid.UUID) ([]domain.SubjectState, error)
}

type journalReader interface {
	ListBySubject(ctx context.Context, userID uuid.UUID, subjectID string, limit int) ([]domain.JournalEntry, error)
}

// Service implements the read projections.
type Service struct {
	states   stateReader
	journal  journalReader
	clock    clockwork.Clock
	maxLimit int
	log      *slog.Logger
}

// NewService creates a new projection service. maxLimit caps History.
func NewService(
	log *slog.Logger,
	clock clockwork.Clock,
	states stateReader,
	journal journalReader,
	maxLimit int,
) *Service {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Service{
		states:   states,
		journal:  journal,
		clock:    clock,
		maxLimit: maxLimit,
		log:      log.With("service", "projection"),
	}
}

// Active returns the caller's active invocation with its computed deadline
// fields, or nil if nothing is invoked. An active row past its deadline is
// still returned, flagged as expired.
func (s *Service) Active(ctx context.Context) (*domain.ActiveInvocation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.active(ctx, userID)
}

// Roster returns the wishlisted subjects that are not invoked, most recent first.
func (s *Service) Roster(ctx context.Context) ([]domain.SubjectState, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.roster(ctx, userID)
}

// History returns the most recent journal sessions of one subject, newest first.
func (s *Service) History(ctx context.Context, input HistoryInput) ([]domain.JournalEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input = input.normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, s.maxLimit)

	entries, err := s.journal.ListBySubject(ctx, userID, input.SubjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// Overview loads the active invocation and the roster concurrently.
func (s *Service) Overview(ctx context.Context) (*domain.Overview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var (
		active *domain.ActiveInvocation
		roster []domain.SubjectState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.active(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.roster(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Overview{Active: active, Roster: roster}, nil
}

func (s *Service) active(ctx context.Context, userID uuid.UUID) (*domain.ActiveInvocation, error) {
	ss, err := s.states.GetActive(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active: %w", err)
	}

	now := s.now()
	view := domain.NewActiveInvocation(ss.State, ss.Subject, now)
	if view.Expired {
		s.log.DebugContext(ctx, "active invocation past deadline",
			slog.String("user_id", userID.String()),
			slog.String("subject_id", ss.State.SubjectID),
		)
	}
	return &view, nil
}

func (s *Service) roster(ctx context.Context, userID uuid.UUID) ([]domain.SubjectState, error) {
	roster, err := s.states.ListRoster(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if roster == nil {
		roster = []domain.SubjectState{}
	}
	return roster, nil
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}
