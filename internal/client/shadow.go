package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// remote is the subset of Client the shadow drives.
type remote interface {
	Active(ctx context.Context) (*domain.ActiveInvocation, error)
	Invoke(ctx context.Context, subjectID string) (*domain.ActiveInvocation, error)
	Extend(ctx context.Context, subjectID string) (*domain.ActiveInvocation, error)
	Banish(ctx context.Context, subjectID string, reason domain.BanishReason) (*domain.ActiveInvocation, error)
	Events(ctx context.Context, fn func(api.ChangeEvent)) error
}

// Shadow is a local copy of the active invocation. Mutations are applied
// optimistically and then replaced by the server's answer; a failed call
// marks the copy stale so the next read refetches it.
type Shadow struct {
	remote remote
	clock  clockwork.Clock
	log    *slog.Logger

	reconnect time.Duration

	mu     sync.Mutex
	active *domain.ActiveInvocation
	fresh  bool
}

// NewShadow creates an empty, stale shadow.
func NewShadow(log *slog.Logger, clock clockwork.Clock, r remote) *Shadow {
	return &Shadow{
		remote:    r,
		clock:     clock,
		log:       log.With("component", "shadow"),
		reconnect: 5 * time.Second,
	}
}

// Active returns the local copy, fetching it first if it is stale.
func (s *Shadow) Active(ctx context.Context) (*domain.ActiveInvocation, error) {
	s.mu.Lock()
	if s.fresh {
		a := s.active
		s.mu.Unlock()
		return a, nil
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

// Refresh replaces the local copy with the server's projection.
func (s *Shadow) Refresh(ctx context.Context) error {
	a, err := s.remote.Active(ctx)
	if err != nil {
		s.markStale()
		return err
	}
	s.set(a)
	return nil
}

// Invoke makes subjectID active.
func (s *Shadow) Invoke(ctx context.Context, subjectID string) error {
	subjectID = domain.NormalizeSubjectID(subjectID)
	now := s.clock.Now()

	s.mu.Lock()
	state := domain.InvocationState{SubjectID: subjectID, Active: true, InvokedAt: &now}
	subject := domain.Subject{ID: subjectID}
	if s.active != nil && s.active.State.SubjectID == subjectID {
		state.LastOfferingAt = s.active.State.LastOfferingAt
		subject = s.active.Subject
	}
	optimistic := domain.NewActiveInvocation(state, subject, now)
	s.active = &optimistic
	s.mu.Unlock()

	return s.reconcile(s.remote.Invoke(ctx, subjectID))
}

// Extend makes an offering for subjectID.
func (s *Shadow) Extend(ctx context.Context, subjectID string) error {
	subjectID = domain.NormalizeSubjectID(subjectID)
	now := s.clock.Now()

	s.mu.Lock()
	if a := s.active; a != nil && a.State.SubjectID == subjectID && a.State.InvokedAt != nil &&
		a.State.CheckOffering(now) == nil {
		state := a.State
		invokedAt := state.ExtendedInvokedAt()
		state.InvokedAt = &invokedAt
		state.LastOfferingAt = &now
		optimistic := domain.NewActiveInvocation(state, a.Subject, now)
		s.active = &optimistic
	}
	s.mu.Unlock()

	return s.reconcile(s.remote.Extend(ctx, subjectID))
}

// Banish ends the invocation of subjectID.
func (s *Shadow) Banish(ctx context.Context, subjectID string, reason domain.BanishReason) error {
	subjectID = domain.NormalizeSubjectID(subjectID)

	s.mu.Lock()
	if s.active != nil && s.active.State.SubjectID == subjectID {
		s.active = nil
	}
	s.mu.Unlock()

	return s.reconcile(s.remote.Banish(ctx, subjectID, reason))
}

// Follow keeps the shadow in sync with the server's change stream until ctx
// is cancelled, reconnecting after stream errors. onChange, if set, is called
// after every refresh.
func (s *Shadow) Follow(ctx context.Context, onChange func(*domain.ActiveInvocation)) error {
	for {
		err := s.remote.Events(ctx, func(ev api.ChangeEvent) {
			if err := s.Refresh(ctx); err != nil {
				s.log.WarnContext(ctx, "refresh after change failed", "error", err)
				return
			}
			s.log.DebugContext(ctx, "shadow refreshed",
				slog.String("action", ev.Action),
				slog.String("subject_id", ev.SubjectID),
			)
			if onChange != nil {
				a, _ := s.Active(ctx)
				onChange(a)
			}
		})
		if ctx.Err() != nil {
			return nil
		}

		// Changes may have been missed while disconnected.
		s.markStale()
		s.log.WarnContext(ctx, "event stream lost", "error", err, "retry_in", s.reconnect)

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.reconnect):
		}
	}
}

func (s *Shadow) reconcile(a *domain.ActiveInvocation, err error) error {
	if err != nil {
		s.markStale()
		return err
	}
	s.set(a)
	return nil
}

func (s *Shadow) set(a *domain.ActiveInvocation) {
	s.mu.Lock()
	s.active = a
	s.fresh = true
	s.mu.Unlock()
}

func (s *Shadow) markStale() {
	s.mu.Lock()
	s.fresh = false
	s.mu.Unlock()
}
