// Package api holds the JSON shapes of the HTTP API shared by the server
// handlers and the client.
package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// Subject is a catalog entry.
type Subject struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Pantheon string  `json:"pantheon"`
	Title    *string `json:"title,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// State is the lifecycle record of one subject.
type State struct {
	SubjectID      string     `json:"subjectId"`
	Active         bool       `json:"active"`
	InvokedAt      *time.Time `json:"invokedAt"`
	LastOfferingAt *time.Time `json:"lastOfferingAt"`
	Wishlisted     bool       `json:"wishlisted"`
	Owned          bool       `json:"owned"`
}

// ActiveInvocation is the active ritual with its computed countdown.
type ActiveInvocation struct {
	Subject             Subject    `json:"subject"`
	State               State      `json:"state"`
	Deadline            time.Time  `json:"deadline"`
	RemainingSeconds    int64      `json:"remainingSeconds"`
	Expired             bool       `json:"expired"`
	OfferingAvailableAt *time.Time `json:"offeringAvailableAt"`
	CanOffer            bool       `json:"canOffer"`
}

// RosterItem is a wishlisted subject that is not invoked.
type RosterItem struct {
	Subject Subject `json:"subject"`
	State   State   `json:"state"`
}

// ActiveResponse is returned by GET /api/rituals/active and by every mutation.
// Active is null when nothing is invoked.
type ActiveResponse struct {
	Active *ActiveInvocation `json:"active"`
}

// RosterResponse is returned by GET /api/rituals/roster.
type RosterResponse struct {
	Roster []RosterItem `json:"roster"`
}

// OverviewResponse is returned by GET /api/rituals/overview.
type OverviewResponse struct {
	Active *ActiveInvocation `json:"active"`
	Roster []RosterItem      `json:"roster"`
}

// JournalEntry is one invocation session.
type JournalEntry struct {
	ID              string     `json:"id"`
	SubjectID       string     `json:"subjectId"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	DurationSeconds int64      `json:"durationSeconds"`
}

// HistoryResponse is returned by GET /api/rituals/{subjectID}/history.
type HistoryResponse struct {
	SubjectID string         `json:"subjectId"`
	Entries   []JournalEntry `json:"entries"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error          string       `json:"error"`
	Fields         []FieldError `json:"fields,omitempty"`
	RemainingHours *int         `json:"remainingHours,omitempty"`
}

// FieldError is one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ChangeEvent is the payload of a ritual.changed server-sent event.
type ChangeEvent struct {
	UserID    string    `json:"userId"`
	SubjectID string    `json:"subjectId,omitempty"`
	Action    string    `json:"action,omitempty"`
	Views     []string  `json:"views"`
	At        time.Time `json:"at"`
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

// FromSubject converts a catalog entry.
func FromSubject(s domain.Subject) Subject {
	return Subject{
		ID:       s.ID,
		Name:     s.Name,
		Pantheon: s.Pantheon,
		Title:    s.Title,
		ImageURL: s.ImageURL,
	}
}

// FromState converts a lifecycle record.
func FromState(s domain.InvocationState) State {
	return State{
		SubjectID:      s.SubjectID,
		Active:         s.Active,
		InvokedAt:      s.InvokedAt,
		LastOfferingAt: s.LastOfferingAt,
		Wishlisted:     s.Wishlisted,
		Owned:          s.Owned,
	}
}

// FromActive converts the active projection. nil stays nil.
func FromActive(a *domain.ActiveInvocation) *ActiveInvocation {
	if a == nil {
		return nil
	}
	return &ActiveInvocation{
		Subject:             FromSubject(a.Subject),
		State:               FromState(a.State),
		Deadline:            a.Deadline,
		RemainingSeconds:    int64(a.Remaining / time.Second),
		Expired:             a.Expired,
		OfferingAvailableAt: a.OfferingAvailableAt,
		CanOffer:            a.CanOffer,
	}
}

// FromRoster converts roster rows. The result is never nil.
func FromRoster(items []domain.SubjectState) []RosterItem {
	out := make([]RosterItem, 0, len(items))
	for _, it := range items {
		out = append(out, RosterItem{Subject: FromSubject(it.Subject), State: FromState(it.State)})
	}
	return out
}

// FromJournal converts journal entries. Open sessions are measured up to now.
func FromJournal(entries []domain.JournalEntry, now time.Time) []JournalEntry {
	out := make([]JournalEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, JournalEntry{
			ID:              e.ID.String(),
			SubjectID:       e.SubjectID,
			StartedAt:       e.StartedAt,
			EndedAt:         e.EndedAt,
			DurationSeconds: int64(e.Duration(now) / time.Second),
		})
	}
	return out
}

// ToDomain converts back to the domain projection. The deadline fields are
// kept as the server computed them.
func (a *ActiveInvocation) ToDomain(userID uuid.UUID) *domain.ActiveInvocation {
	if a == nil {
		return nil
	}
	return &domain.ActiveInvocation{
		State: domain.InvocationState{
			UserID:         userID,
			SubjectID:      a.State.SubjectID,
			Active:         a.State.Active,
			InvokedAt:      a.State.InvokedAt,
			LastOfferingAt: a.State.LastOfferingAt,
			Wishlisted:     a.State.Wishlisted,
			Owned:          a.State.Owned,
		},
		Subject: domain.Subject{
			ID:       a.Subject.ID,
			Name:     a.Subject.Name,
			Pantheon: a.Subject.Pantheon,
			Title:    a.Subject.Title,
			ImageURL: a.Subject.ImageURL,
		},
		Deadline:            a.Deadline,
		Remaining:           time.Duration(a.RemainingSeconds) * time.Second,
		Expired:             a.Expired,
		OfferingAvailableAt: a.OfferingAvailableAt,
		CanOffer:            a.CanOffer,
	}
}

// ToDomain converts a journal entry back. Unparseable ids become uuid.Nil.
func (e JournalEntry) ToDomain() domain.JournalEntry {
	id, _ := uuid.Parse(e.ID)
	return domain.JournalEntry{
		ID:        id,
		SubjectID: e.SubjectID,
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
	}
}

// FromChange builds the event payload of a notification.
func FromChange(userID uuid.UUID, subjectID string, action domain.AuditAction, views []domain.View, at time.Time) ChangeEvent {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.String())
	}
	return ChangeEvent{
		UserID:    userID.String(),
		SubjectID: subjectID,
		Action:    action.String(),
		Views:     names,
		At:        at,
	}
}
