package invocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

// Banish ends the invocation of the subject and closes its most recent open
// journal session. Banishing an inactive or unknown pair is a no-op that
// still succeeds. Manual exits and watchdog expiries both come through here.
func (s *Service) Banish(ctx context.Context, input BanishInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	input = input.normalize()
	if err := input.Validate(); err != nil {
		return err
	}

	var now time.Time
	var deactivated, closed bool

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.states.LockUser(txCtx, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		now = s.now()

		var err error
		deactivated, err = s.states.Deactivate(txCtx, userID, input.SubjectID, now)
		if err != nil {
			return fmt.Errorf("deactivate: %w", err)
		}

		closed, err = s.journal.CloseLatestOpen(txCtx, userID, input.SubjectID, now)
		if err != nil {
			return fmt.Errorf("close journal: %w", err)
		}

		if !deactivated && !closed {
			return nil
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:    userID,
			SubjectID: input.SubjectID,
			Action:    domain.AuditActionBanish,
			Changes: map[string]any{
				"reason":         input.Reason.String(),
				"was_active":     deactivated,
				"journal_closed": closed,
				"ended_at":       now,
			},
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "subject banished",
		slog.String("user_id", userID.String()),
		slog.String("subject_id", input.SubjectID),
		slog.String("reason", input.Reason.String()),
		slog.Bool("was_active", deactivated),
		slog.Bool("journal_closed", closed),
	)

	s.publish(ctx, userID, input.SubjectID, domain.AuditActionBanish, now)

	return nil
}
