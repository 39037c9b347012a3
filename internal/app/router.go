package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/altar-backend/internal/config"
	"github.com/heartmarshall/altar-backend/internal/notify"
	"github.com/heartmarshall/altar-backend/internal/service/invocation"
	"github.com/heartmarshall/altar-backend/internal/service/projection"
	"github.com/heartmarshall/altar-backend/internal/transport/middleware"
	"github.com/heartmarshall/altar-backend/internal/transport/rest"
)

// eventsKeepAlive is the comment interval on the change stream.
const eventsKeepAlive = 25 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// routerDeps are the collaborators of the HTTP surface.
type routerDeps struct {
	cfg         *config.Config
	log         *slog.Logger
	clock       clockwork.Clock
	db          dbPinger
	hub         *notify.Hub
	tokens      tokenValidator
	limiter     *middleware.RateLimiter
	invocations *invocation.Service
	projections *projection.Service
}

// newRouter registers every route and wraps the mux in the middleware chain:
// recovery, request id, logger, CORS, auth. Mutations are rate limited.
func newRouter(d routerDeps) http.Handler {
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(d.db, d.hub, d.clock, BuildVersion())
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	rituals := rest.NewRitualHandler(d.invocations, d.projections, d.clock, d.log)
	rituals.Routes(mux, d.limiter.Limit(d.cfg.RateLimit.MutationsPerMinute))

	events := rest.NewEventsHandler(d.hub, d.clock, eventsKeepAlive, d.log)
	events.Routes(mux)

	chain := middleware.Chain(
		middleware.Recovery(d.log),
		middleware.RequestID(),
		middleware.Unless(middleware.Logger(d.log), "/live", "/ready"),
		middleware.CORS(d.cfg.CORS),
		middleware.Auth(d.tokens),
	)
	return chain(mux)
}
