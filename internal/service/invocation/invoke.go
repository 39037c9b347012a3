package invocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

// Invoke makes the subject the caller's single active invocation, starting a
// new 24h window and a new journal session. Any other active subject of the
// caller is deactivated in the same transaction.
func (s *Service) Invoke(ctx context.Context, input SubjectInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	input = input.normalize()
	if err := input.Validate(); err != nil {
		return err
	}

	var (
		now       time.Time
		displaced []string
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.states.LockUser(txCtx, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		// Read after the lock so transitions of one user never go back in time.
		now = s.now()

		var err error
		displaced, err = s.states.DeactivateOthers(txCtx, userID, input.SubjectID, now)
		if err != nil {
			return fmt.Errorf("deactivate others: %w", err)
		}

		if s.opts.CloseDisplacedJournal {
			for _, other := range displaced {
				if _, err := s.journal.CloseOpen(txCtx, userID, other, now); err != nil {
					return fmt.Errorf("close displaced journal %s: %w", other, err)
				}
			}
		}

		if _, err := s.states.Activate(txCtx, userID, input.SubjectID, now); err != nil {
			return fmt.Errorf("activate: %w", err)
		}

		// A session left open by an earlier invoke of the same subject
		// would block the new one.
		stale, err := s.journal.CloseOpen(txCtx, userID, input.SubjectID, now)
		if err != nil {
			return fmt.Errorf("close stale journal: %w", err)
		}

		if _, err := s.journal.Open(txCtx, userID, input.SubjectID, now); err != nil {
			return fmt.Errorf("open journal: %w", err)
		}

		changes := map[string]any{"invoked_at": now}
		if len(displaced) > 0 {
			changes["displaced"] = displaced
		}
		if stale > 0 {
			changes["closed_stale_sessions"] = stale
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:    userID,
			SubjectID: input.SubjectID,
			Action:    domain.AuditActionInvoke,
			Changes:   changes,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "subject invoked",
		slog.String("user_id", userID.String()),
		slog.String("subject_id", input.SubjectID),
		slog.Int("displaced", len(displaced)),
	)

	s.publish(ctx, userID, input.SubjectID, domain.AuditActionInvoke, now)

	return nil
}
