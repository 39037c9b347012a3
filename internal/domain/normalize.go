package domain

import (
	"strings"
)

// MaxSubjectIDLength bounds catalog slugs.
const MaxSubjectIDLength = 64

// NormalizeSubjectID prepares a subject slug for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
func NormalizeSubjectID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ValidateSubjectID checks a normalized slug: non-empty, bounded, and made of
// lowercase letters, digits, '-' or '_'.
func ValidateSubjectID(id string) error {
	if id == "" {
		return NewValidationError("subject_id", "required")
	}
	if len(id) > MaxSubjectIDLength {
		return NewValidationError("subject_id", "max 64 characters")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return NewValidationError("subject_id", "only lowercase letters, digits, '-' and '_' allowed")
		}
	}
	return nil
}
