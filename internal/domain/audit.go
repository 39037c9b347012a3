package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord logs a lifecycle transition of one (user, subject) pair.
type AuditRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SubjectID string
	Action    AuditAction
	Changes   map[string]any
	CreatedAt time.Time
}
