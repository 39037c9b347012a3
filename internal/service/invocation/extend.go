package invocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

// Extend makes an offering: invokedAt moves 6h forward from its previous
// value and the 8h cooldown restarts. During the cooldown it fails with a
// *domain.CooldownError and nothing changes. A subject that was never
// invoked is a silent no-op.
func (s *Service) Extend(ctx context.Context, input SubjectInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	input = input.normalize()
	if err := input.Validate(); err != nil {
		return err
	}

	var now time.Time
	var (
		applied bool
		before  domain.InvocationState
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.states.LockUser(txCtx, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		now = s.now()

		// Cooldown is always checked against the locked row, never a cached copy.
		state, err := s.states.GetForUpdate(txCtx, userID, input.SubjectID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get state: %w", err)
		}
		if state.InvokedAt == nil {
			return nil
		}
		if s.opts.ExtendRequiresActive && !state.Active {
			return nil
		}

		if err := state.CheckOffering(now); err != nil {
			return err
		}

		next := state.ExtendedInvokedAt()
		if err := s.states.ApplyOffering(txCtx, userID, input.SubjectID, next, now); err != nil {
			return fmt.Errorf("apply offering: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:    userID,
			SubjectID: input.SubjectID,
			Action:    domain.AuditActionExtend,
			Changes: map[string]any{
				"invoked_at":       map[string]any{"old": *state.InvokedAt, "new": next},
				"last_offering_at": map[string]any{"old": state.LastOfferingAt, "new": now},
			},
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		before = *state
		applied = true
		return nil
	})
	if err != nil {
		var cooldown *domain.CooldownError
		if errors.As(err, &cooldown) {
			s.log.DebugContext(ctx, "offering rejected by cooldown",
				slog.String("user_id", userID.String()),
				slog.String("subject_id", input.SubjectID),
				slog.Int("remaining_hours", cooldown.RemainingHours),
			)
		}
		return err
	}

	if !applied {
		s.log.DebugContext(ctx, "offering ignored, subject not invoked",
			slog.String("user_id", userID.String()),
			slog.String("subject_id", input.SubjectID),
		)
		return nil
	}

	s.log.InfoContext(ctx, "offering made",
		slog.String("user_id", userID.String()),
		slog.String("subject_id", input.SubjectID),
		slog.Time("invoked_at", before.ExtendedInvokedAt()),
	)

	s.publish(ctx, userID, input.SubjectID, domain.AuditActionExtend, now)

	return nil
}
