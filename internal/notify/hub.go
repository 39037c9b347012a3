// Package notify is the in-process change notifier. The invocation service
// publishes one Change per successful transition; read models and the SSE
// endpoint subscribe and re-run their projections.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

// EventName is the signal name used on the wire.
const EventName = "ritual.changed"

const defaultBuffer = 16

// Change tells subscribers which views of which user are stale.
type Change struct {
	UserID    uuid.UUID
	SubjectID string
	Action    domain.AuditAction
	Views     []domain.View
	At        time.Time
}

// Subscription receives changes until Close is called.
type Subscription struct {
	hub    *Hub
	userID uuid.UUID
	ch     chan Change
	once   sync.Once
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription) C() <-chan Change { return s.ch }

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Hub fans changes out to subscribers without ever blocking the publisher.
type Hub struct {
	log    *slog.Logger
	buffer int

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewHub creates a Hub. buffer <= 0 uses the default size.
func NewHub(log *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		log:    log.With("component", "notify"),
		buffer: buffer,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a subscriber for one user. uuid.Nil receives every user.
func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	s := &Subscription{hub: h, userID: userID, ch: make(chan Change, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	h.subs[s] = struct{}{}
	return s
}

// Publish delivers c to every matching subscriber. A full subscriber loses
// its oldest pending change: every change only means "re-read", so the newest
// one is enough.
func (h *Hub) Publish(ctx context.Context, c Change) {
	if len(c.Views) == 0 {
		c.Views = domain.AllViews()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if s.userID != uuid.Nil && s.userID != c.UserID {
			continue
		}
		select {
		case s.ch <- c:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- c:
			default:
			}
			h.log.DebugContext(ctx, "subscriber lagging, dropped stale change",
				slog.String("user_id", c.UserID.String()))
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription. Later subscriptions are born closed.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[*Subscription]struct{})
	h.closed = true
	h.mu.Unlock()

	for s := range subs {
		s.once.Do(func() { close(s.ch) })
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
