package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/internal/service/invocation"
	"github.com/heartmarshall/altar-backend/internal/service/projection"
)

type invocationService interface {
	Invoke(ctx context.Context, input invocation.SubjectInput) error
	Banish(ctx context.Context, input invocation.BanishInput) error
	Extend(ctx context.Context, input invocation.SubjectInput) error
	SetWishlisted(ctx context.Context, input invocation.WishlistInput) error
}

type projectionService interface {
	Active(ctx context.Context) (*domain.ActiveInvocation, error)
	Roster(ctx context.Context) ([]domain.SubjectState, error)
	History(ctx context.Context, input projection.HistoryInput) ([]domain.JournalEntry, error)
	Overview(ctx context.Context) (*domain.Overview, error)
}

// RitualHandler serves the /api/rituals endpoints.
type RitualHandler struct {
	invocations invocationService
	projections projectionService
	clock       clockwork.Clock
	log         *slog.Logger
}

// NewRitualHandler creates a RitualHandler.
func NewRitualHandler(invocations invocationService, projections projectionService, clock clockwork.Clock, logger *slog.Logger) *RitualHandler {
	return &RitualHandler{
		invocations: invocations,
		projections: projections,
		clock:       clock,
		log:         logger.With("handler", "ritual"),
	}
}

type banishRequest struct {
	Reason string `json:"reason"`
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Active handles GET /api/rituals/active.
func (h *RitualHandler) Active(w http.ResponseWriter, r *http.Request) {
	h.writeActive(w, r, http.StatusOK)
}

// Roster handles GET /api/rituals/roster.
func (h *RitualHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.projections.Roster(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.RosterResponse{Roster: api.FromRoster(roster)})
}

// Overview handles GET /api/rituals/overview.
func (h *RitualHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.projections.Overview(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OverviewResponse{
		Active: api.FromActive(overview.Active),
		Roster: api.FromRoster(overview.Roster),
	})
}

// History handles GET /api/rituals/{subjectID}/history?limit=N.
func (h *RitualHandler) History(w http.ResponseWriter, r *http.Request) {
	input := projection.HistoryInput{SubjectID: r.PathValue("subjectID")}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		input.Limit = limit
	}

	entries, err := h.projections.History(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.HistoryResponse{
		SubjectID: domain.NormalizeSubjectID(input.SubjectID),
		Entries:   api.FromJournal(entries, h.clock.Now()),
	})
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Invoke handles POST /api/rituals/{subjectID}/invoke.
func (h *RitualHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	err := h.invocations.Invoke(r.Context(), invocation.SubjectInput{SubjectID: r.PathValue("subjectID")})
	h.afterMutation(w, r, err)
}

// Banish handles POST /api/rituals/{subjectID}/banish. The body is optional:
// {"reason": "EXPIRED"} marks a watchdog expiry.
func (h *RitualHandler) Banish(w http.ResponseWriter, r *http.Request) {
	var req banishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.invocations.Banish(r.Context(), invocation.BanishInput{
		SubjectID: r.PathValue("subjectID"),
		Reason:    domain.BanishReason(req.Reason),
	})
	h.afterMutation(w, r, err)
}

// Extend handles POST /api/rituals/{subjectID}/extend.
func (h *RitualHandler) Extend(w http.ResponseWriter, r *http.Request) {
	err := h.invocations.Extend(r.Context(), invocation.SubjectInput{SubjectID: r.PathValue("subjectID")})
	h.afterMutation(w, r, err)
}

// Wishlist handles PUT and DELETE /api/rituals/{subjectID}/wishlist.
func (h *RitualHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	err := h.invocations.SetWishlisted(r.Context(), invocation.WishlistInput{
		SubjectID:  r.PathValue("subjectID"),
		Wishlisted: r.Method != http.MethodDelete,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.Roster(w, r)
}

// afterMutation answers with the refreshed active projection.
func (h *RitualHandler) afterMutation(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeActive(w, r, http.StatusOK)
}

func (h *RitualHandler) writeActive(w http.ResponseWriter, r *http.Request, status int) {
	active, err := h.projections.Active(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, status, api.ActiveResponse{Active: api.FromActive(active)})
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

// Routes registers the ritual endpoints on mux. mutate wraps the mutating
// routes, typically with a rate limiter.
func (h *RitualHandler) Routes(mux *http.ServeMux, mutate func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/rituals/active", h.Active)
	mux.HandleFunc("GET /api/rituals/roster", h.Roster)
	mux.HandleFunc("GET /api/rituals/overview", h.Overview)
	mux.HandleFunc("GET /api/rituals/{subjectID}/history", h.History)

	mux.Handle("POST /api/rituals/{subjectID}/invoke", mutate(http.HandlerFunc(h.Invoke)))
	mux.Handle("POST /api/rituals/{subjectID}/banish", mutate(http.HandlerFunc(h.Banish)))
	mux.Handle("POST /api/rituals/{subjectID}/extend", mutate(http.HandlerFunc(h.Extend)))
	mux.Handle("PUT /api/rituals/{subjectID}/wishlist", mutate(http.HandlerFunc(h.Wishlist)))
	mux.Handle("DELETE /api/rituals/{subjectID}/wishlist", mutate(http.HandlerFunc(h.Wishlist)))
}
