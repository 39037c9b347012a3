package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle constants of an invocation.
const (
	// InvocationDuration is how long an invocation stays alive after invokedAt.
	InvocationDuration = 24 * time.Hour
	// OfferingCooldown is the minimum wall-clock gap between two offerings.
	OfferingCooldown = 8 * time.Hour
	// OfferingExtension is how far an offering pushes invokedAt forward.
	OfferingExtension = 6 * time.Hour
)

// InvocationState is the per (user, subject) lifecycle record.
type InvocationState struct {
	UserID         uuid.UUID
	SubjectID      string
	Active         bool
	InvokedAt      *time.Time
	LastOfferingAt *time.Time
	Wishlisted     bool
	Owned          bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Deadline returns invokedAt + 24h. ok is false if the subject was never invoked.
func (s InvocationState) Deadline() (deadline time.Time, ok bool) {
	if s.InvokedAt == nil {
		return time.Time{}, false
	}
	return s.InvokedAt.Add(InvocationDuration), true
}

// Remaining returns the time left before the deadline. It is <= 0 once the
// invocation has expired, and 0 for a subject that was never invoked.
func (s InvocationState) Remaining(now time.Time) time.Duration {
	deadline, ok := s.Deadline()
	if !ok {
		return 0
	}
	return deadline.Sub(now)
}

// Expired reports whether an active invocation has passed its deadline.
// The active flag alone is not authoritative: an unobserved invocation stays
// active in storage until someone banishes it.
func (s InvocationState) Expired(now time.Time) bool {
	if !s.Active || s.InvokedAt == nil {
		return false
	}
	return s.Remaining(now) <= 0
}

// CooldownRemaining returns how long until the next offering is allowed.
// Zero means an offering can be made now.
func (s InvocationState) CooldownRemaining(now time.Time) time.Duration {
	if s.LastOfferingAt == nil {
		return 0
	}
	elapsed := now.Sub(*s.LastOfferingAt)
	if elapsed >= OfferingCooldown {
		return 0
	}
	return OfferingCooldown - elapsed
}

// OfferingAvailableAt returns when the cooldown ends, or nil if no offering
// was ever made.
func (s InvocationState) OfferingAvailableAt() *time.Time {
	if s.LastOfferingAt == nil {
		return nil
	}
	t := s.LastOfferingAt.Add(OfferingCooldown)
	return &t
}

// CheckOffering validates the cooldown for an offering made at now.
func (s InvocationState) CheckOffering(now time.Time) error {
	if remaining := s.CooldownRemaining(now); remaining > 0 {
		return NewCooldownError(remaining)
	}
	return nil
}

// ExtendedInvokedAt returns the start time after one offering. The deadline
// moves relative to the previous start, not relative to now.
func (s InvocationState) ExtendedInvokedAt() time.Time {
	return s.InvokedAt.Add(OfferingExtension)
}

// JournalEntry is one invocation session of a subject.
type JournalEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SubjectID string
	StartedAt time.Time
	EndedAt   *time.Time
}

// IsOpen reports whether the session is still running.
func (e JournalEntry) IsOpen() bool { return e.EndedAt == nil }

// Duration returns the session length. Open sessions are measured up to now.
func (e JournalEntry) Duration(now time.Time) time.Duration {
	if e.EndedAt != nil {
		return e.EndedAt.Sub(e.StartedAt)
	}
	return now.Sub(e.StartedAt)
}

// Subject is a deity from the catalog.
type Subject struct {
	ID        string
	Name      string
	Pantheon  string
	Title     *string
	ImageURL  *string
	CreatedAt time.Time
}

// ActiveInvocation is the read projection of the user's current ritual.
type ActiveInvocation struct {
	State               InvocationState
	Subject             Subject
	Deadline            time.Time
	Remaining           time.Duration
	Expired             bool
	OfferingAvailableAt *time.Time
	CanOffer            bool
}

// NewActiveInvocation computes the time-dependent view fields at now.
func NewActiveInvocation(state InvocationState, subject Subject, now time.Time) ActiveInvocation {
	deadline, _ := state.Deadline()
	return ActiveInvocation{
		State:               state,
		Subject:             subject,
		Deadline:            deadline,
		Remaining:           state.Remaining(now),
		Expired:             state.Expired(now),
		OfferingAvailableAt: state.OfferingAvailableAt(),
		CanOffer:            state.CooldownRemaining(now) == 0,
	}
}

// SubjectState pairs a state row with its catalog entry.
type SubjectState struct {
	State   InvocationState
	Subject Subject
}

// Overview bundles the active ritual and the roster.
type Overview struct {
	Active *ActiveInvocation
	Roster []SubjectState
}
