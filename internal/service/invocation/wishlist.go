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

// SetWishlisted puts a subject on or off the caller's roster. The active
// subject cannot be taken off the wishlist.
func (s *Service) SetWishlisted(ctx context.Context, input WishlistInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	input = input.normalize()
	if err := input.Validate(); err != nil {
		return err
	}

	var now time.Time
	action := domain.AuditActionWishlist
	if !input.Wishlisted {
		action = domain.AuditActionUnwishlist
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.states.LockUser(txCtx, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		now = s.now()

		if !input.Wishlisted {
			state, err := s.states.GetForUpdate(txCtx, userID, input.SubjectID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("get state: %w", err)
			}
			if state != nil && state.Active {
				return fmt.Errorf("subject %s is invoked: %w", input.SubjectID, domain.ErrConflict)
			}
		}

		if err := s.states.SetWishlisted(txCtx, userID, input.SubjectID, input.Wishlisted, now); err != nil {
			return fmt.Errorf("set wishlisted: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:    userID,
			SubjectID: input.SubjectID,
			Action:    action,
			Changes:   map[string]any{"wishlisted": input.Wishlisted},
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "wishlist updated",
		slog.String("user_id", userID.String()),
		slog.String("subject_id", input.SubjectID),
		slog.Bool("wishlisted", input.Wishlisted),
	)

	s.publish(ctx, userID, input.SubjectID, action, now)

	return nil
}
