package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/notify"
	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

const defaultKeepAlive = 25 * time.Second

type subscriber interface {
	Subscribe(userID uuid.UUID) *notify.Subscription
}

// EventsHandler streams ritual.changed notifications as server-sent events.
type EventsHandler struct {
	hub       subscriber
	clock     clockwork.Clock
	keepAlive time.Duration
	log       *slog.Logger
}

// NewEventsHandler creates an EventsHandler. keepAlive <= 0 uses 25s.
func NewEventsHandler(hub subscriber, clock clockwork.Clock, keepAlive time.Duration, logger *slog.Logger) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &EventsHandler{hub: hub, clock: clock, keepAlive: keepAlive, log: logger.With("handler", "events")}
}

// Stream handles GET /api/rituals/events. Only the caller's changes are sent.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sub := h.hub.Subscribe(userID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	h.log.DebugContext(r.Context(), "event stream opened", slog.String("user_id", userID.String()))

	ticker := h.clock.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case c, ok := <-sub.C():
			if !ok {
				return
			}
			data, err := json.Marshal(api.FromChange(c.UserID, c.SubjectID, c.Action, c.Views, c.At))
			if err != nil {
				h.log.ErrorContext(ctx, "marshal change event", slog.String("error", err.Error()))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", notify.EventName, data)
			flusher.Flush()
		}
	}
}

// Routes registers the event stream on mux.
func (h *EventsHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rituals/events", h.Stream)
}
