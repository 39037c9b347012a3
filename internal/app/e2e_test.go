//go:build e2e

package app

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/altar-backend/internal/adapter/postgres"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/invocation"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/journal"
	"github.com/heartmarshall/altar-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/auth"
	"github.com/heartmarshall/altar-backend/internal/client"
	"github.com/heartmarshall/altar-backend/internal/config"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/internal/notify"
	invocationsvc "github.com/heartmarshall/altar-backend/internal/service/invocation"
	"github.com/heartmarshall/altar-backend/internal/service/projection"
	"github.com/heartmarshall/altar-backend/internal/transport/middleware"
	"github.com/heartmarshall/altar-backend/internal/watchdog"
)

// stack is the full server on a real database, driven through the client.
type stack struct {
	pool   *pgxpool.Pool
	clock  *clockwork.FakeClock
	hub    *notify.Hub
	client *client.Client
}

func setupStack(t *testing.T) stack {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	log := slog.Default()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	states := invocation.New(pool)
	journalRepo := journal.New(pool)

	hub := notify.NewHub(log, 16)
	t.Cleanup(hub.Close)

	limiter := middleware.NewRateLimiter(clock, time.Minute)
	t.Cleanup(limiter.Stop)

	tokens := auth.NewJWTManager("e2e-secret", "altar", time.Hour)

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PUT,DELETE"},
		RateLimit: config.RateLimitConfig{MutationsPerMinute: 1000},
	}

	handler := newRouter(routerDeps{
		cfg:     cfg,
		log:     log,
		clock:   clock,
		db:      pool,
		hub:     hub,
		tokens:  tokens,
		limiter: limiter,
		invocations: invocationsvc.NewService(log, clock, states, journalRepo, audit.New(pool),
			postgres.NewTxManager(pool), hub, invocationsvc.Options{CloseDisplacedJournal: true}),
		projections: projection.NewService(log, clock, states, journalRepo, 100),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	userID := uuid.New()
	token, err := tokens.GenerateAccessToken(userID, auth.RoleUser)
	require.NoError(t, err)

	c, err := client.New(config.ClientAPIConfig{
		BaseURL: srv.URL,
		Token:   token,
		Timeout: 10 * time.Second,
	}, log, client.WithUserID(userID))
	require.NoError(t, err)

	return stack{pool: pool, clock: clock, hub: hub, client: c}
}

func TestE2E_RitualLifecycle(t *testing.T) {
	s := setupStack(t)
	thor := testhelper.SeedSubject(t, s.pool, "Thor")
	freya := testhelper.SeedSubject(t, s.pool, "Freya")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Follow the change stream for the whole scenario.
	var (
		mu     sync.Mutex
		events []api.ChangeEvent
	)
	streamCtx, stopStream := context.WithCancel(ctx)
	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		_ = s.client.Events(streamCtx, func(ev api.ChangeEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		})
	}()
	t.Cleanup(func() {
		stopStream()
		<-streamDone
	})
	require.Eventually(t, func() bool { return s.hub.Subscribers() == 1 }, 10*time.Second, 10*time.Millisecond)

	t0 := s.clock.Now()

	// Invoke thor, then displace it with freya.
	a, err := s.client.Invoke(ctx, thor.ID)
	require.NoError(t, err)
	assert.Equal(t, thor.ID, a.State.SubjectID)
	assert.Equal(t, domain.InvocationDuration, a.Remaining)

	s.clock.Advance(time.Hour)
	a, err = s.client.Invoke(ctx, freya.ID)
	require.NoError(t, err)
	assert.Equal(t, freya.ID, a.State.SubjectID)

	// Offering two hours in moves the start six hours forward.
	s.clock.Advance(2 * time.Hour)
	a, err = s.client.Extend(ctx, freya.ID)
	require.NoError(t, err)
	assert.True(t, a.State.InvokedAt.Equal(t0.Add(time.Hour+domain.OfferingExtension)))

	// A second offering right away is on cooldown.
	_, err = s.client.Extend(ctx, freya.ID)
	var ce *domain.CooldownError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 8, ce.RemainingHours)

	// Let the watchdog expire freya.
	shadow := client.NewShadow(slog.Default(), s.clock, s.client)
	dog := watchdog.New(slog.Default(), s.clock, shadow, shadow, watchdog.Options{})

	st, err := dog.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, freya.ID, st.SubjectID)
	assert.False(t, st.Banishing)

	s.clock.Advance(domain.InvocationDuration + domain.OfferingExtension)
	st, err = dog.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, st.Banishing)
	dog.Wait()

	active, err := shadow.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	history, err := s.client.History(ctx, freya.ID, 0)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	require.NotNil(t, history.Entries[0].EndedAt)
	assert.True(t, history.Entries[0].EndedAt.Equal(s.clock.Now()))

	thorHistory, err := s.client.History(ctx, thor.ID, 0)
	require.NoError(t, err)
	require.Len(t, thorHistory.Entries, 1)
	assert.Equal(t, int64(time.Hour/time.Second), thorHistory.Entries[0].DurationSeconds)

	// invoke, invoke, extend, banish.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 4
	}, 10*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	actions := make([]string, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, []string{"INVOKE", "INVOKE", "EXTEND", "BANISH"}, actions)
}

func TestE2E_WishlistRoster(t *testing.T) {
	s := setupStack(t)
	odin := testhelper.SeedSubject(t, s.pool, "Odin")

	ctx := context.Background()

	roster, err := s.client.SetWishlisted(ctx, odin.ID, true)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, odin.ID, roster[0].Subject.ID)

	_, err = s.client.Invoke(ctx, odin.ID)
	require.NoError(t, err)

	_, err = s.client.SetWishlisted(ctx, odin.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	ov, err := s.client.Overview(ctx)
	require.NoError(t, err)
	require.NotNil(t, ov.Active)
	assert.Equal(t, odin.ID, ov.Active.State.SubjectID)
	assert.Empty(t, ov.Roster)

	_, err = s.client.Invoke(ctx, "no-such-deity")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
