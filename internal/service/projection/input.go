package projection

import (
	"errors"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// HistoryInput selects the journal of one subject.
type HistoryInput struct {
	SubjectID string
	// Limit of 0 means DefaultHistoryLimit. Larger values are capped.
	Limit int
}

// Validate checks all fields and collects all errors.
func (i HistoryInput) Validate() error {
	var errs []domain.FieldError

	if err := domain.ValidateSubjectID(i.SubjectID); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		}
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i HistoryInput) normalize() HistoryInput {
	i.SubjectID = domain.NormalizeSubjectID(i.SubjectID)
	return i
}
