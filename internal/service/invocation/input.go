package invocation

import (
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// SubjectInput names the subject of an invoke or extend.
type SubjectInput struct {
	SubjectID string
}

// Validate checks all fields and collects all errors.
func (i SubjectInput) Validate() error {
	return domain.ValidateSubjectID(i.SubjectID)
}

func (i SubjectInput) normalize() SubjectInput {
	i.SubjectID = domain.NormalizeSubjectID(i.SubjectID)
	return i
}

// BanishInput holds the parameters for ending an invocation.
type BanishInput struct {
	SubjectID string
	// Reason defaults to MANUAL.
	Reason domain.BanishReason
}

// Validate checks all fields and collects all errors.
func (i BanishInput) Validate() error {
	var errs []domain.FieldError

	if err := domain.ValidateSubjectID(i.SubjectID); err != nil {
		errs = append(errs, fieldErrors(err)...)
	}
	if !i.Reason.IsValid() {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "must be MANUAL or EXPIRED"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i BanishInput) normalize() BanishInput {
	i.SubjectID = domain.NormalizeSubjectID(i.SubjectID)
	if i.Reason == "" {
		i.Reason = domain.BanishReasonManual
	}
	return i
}

// WishlistInput puts a subject on or off the roster.
type WishlistInput struct {
	SubjectID  string
	Wishlisted bool
}

// Validate checks all fields and collects all errors.
func (i WishlistInput) Validate() error {
	return domain.ValidateSubjectID(i.SubjectID)
}

func (i WishlistInput) normalize() WishlistInput {
	i.SubjectID = domain.NormalizeSubjectID(i.SubjectID)
	return i
}

func fieldErrors(err error) []domain.FieldError {
	if ve, ok := err.(*domain.ValidationError); ok {
		return ve.Errors
	}
	return []domain.FieldError{{Field: "input", Message: err.Error()}}
}
