// Package watchdog expires invocations from the client side. There is no
// server job: an invocation nobody watches stays active past its deadline
// until a watchdog (or the user) banishes it.
package watchdog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/altar-backend/internal/domain"
)

type source interface {
	Active(ctx context.Context) (*domain.ActiveInvocation, error)
	Refresh(ctx context.Context) error
}

type banisher interface {
	Banish(ctx context.Context, subjectID string, reason domain.BanishReason) error
}

// Options tune the polling loop.
type Options struct {
	Interval       time.Duration
	SettleDelay    time.Duration
	RequestTimeout time.Duration
	// OnStatus, if set, is called after every poll with the current status.
	OnStatus func(Status)
}

// Status is the outcome of one poll. SubjectID is empty when nothing is invoked.
type Status struct {
	SubjectID string
	Remaining time.Duration
	Banishing bool
}

// Watchdog polls the active invocation and banishes it once its deadline passed.
type Watchdog struct {
	source   source
	banisher banisher
	clock    clockwork.Clock
	opts     Options
	log      *slog.Logger

	flights  singleflight.Group
	inflight sync.WaitGroup
}

// New creates a Watchdog.
func New(log *slog.Logger, clock clockwork.Clock, src source, b banisher, opts Options) *Watchdog {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &Watchdog{
		source:   src,
		banisher: b,
		clock:    clock,
		opts:     opts,
		log:      log.With("component", "watchdog"),
	}
}

// Run polls immediately and then on every interval until ctx is cancelled.
// It waits for an in-flight banish before returning.
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	w.log.InfoContext(ctx, "watchdog started", slog.Duration("interval", w.opts.Interval))

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.inflight.Wait()
			w.log.InfoContext(ctx, "watchdog stopped")
			return nil
		case <-ticker.Chan():
			w.tick(ctx)
		}
	}
}

func (w *Watchdog) tick(ctx context.Context) {
	status, err := w.Poll(ctx)
	if err != nil {
		w.log.WarnContext(ctx, "poll failed", slog.String("error", err.Error()))
		return
	}
	if w.opts.OnStatus != nil {
		w.opts.OnStatus(status)
	}
}

// Poll checks the active invocation once. If its deadline has passed it
// re-reads the projection from the server, and only if the fresh copy is
// still expired and no banish for that subject is in flight does it start
// one in the background.
func (w *Watchdog) Poll(ctx context.Context) (Status, error) {
	active, err := w.source.Active(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read active: %w", err)
	}
	status := w.status(active)
	if status.SubjectID == "" || status.Remaining > 0 {
		return status, nil
	}

	// The source may serve a cached copy; a banish is decided on the server's state.
	if err := w.source.Refresh(ctx); err != nil {
		return status, fmt.Errorf("refresh before banish: %w", err)
	}
	active, err = w.source.Active(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read active: %w", err)
	}
	status = w.status(active)
	if status.SubjectID == "" || status.Remaining > 0 {
		return status, nil
	}

	subjectID := status.SubjectID
	status.Banishing = true
	ch := w.flights.DoChan(subjectID, func() (any, error) {
		return nil, w.expire(context.WithoutCancel(ctx), subjectID)
	})

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		<-ch
	}()

	return status, nil
}

func (w *Watchdog) status(active *domain.ActiveInvocation) Status {
	if active == nil || active.State.InvokedAt == nil {
		return Status{}
	}
	return Status{
		SubjectID: active.State.SubjectID,
		Remaining: active.State.Remaining(w.clock.Now()),
	}
}

// Wait blocks until every banish started by Poll has finished.
func (w *Watchdog) Wait() {
	w.inflight.Wait()
}

// expire banishes the subject, waits for the store to settle and re-reads the
// projection. The single-flight key is released when it returns, so a failure
// is retried on the next tick.
func (w *Watchdog) expire(ctx context.Context, subjectID string) error {
	w.log.InfoContext(ctx, "invocation expired, banishing", slog.String("subject_id", subjectID))

	bctx, cancel := context.WithTimeout(ctx, w.opts.RequestTimeout)
	err := w.banisher.Banish(bctx, subjectID, domain.BanishReasonExpired)
	cancel()
	if err != nil {
		w.log.WarnContext(ctx, "banish failed, will retry",
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("banish %s: %w", subjectID, err)
	}

	if w.opts.SettleDelay > 0 {
		<-w.clock.After(w.opts.SettleDelay)
	}

	rctx, cancel := context.WithTimeout(ctx, w.opts.RequestTimeout)
	defer cancel()
	if err := w.source.Refresh(rctx); err != nil {
		w.log.WarnContext(ctx, "refresh after banish failed",
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("refresh: %w", err)
	}

	return nil
}
