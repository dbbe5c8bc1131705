// internal/httpserver/server.go
//
// HTTP server wiring for the Mind Reader backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/", "/health", "/leaderboard".
//   - Game endpoints (player cookie): /game, /game/new, /game/guess, /game/hint,
//     /game/clock (websocket).
//   - Player endpoints: /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every game request runs through withPlayer, which resolves or mints the
//     player and serialises engine access through Player.Do.
//   - The clock websocket is mounted outside the timeout middleware.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mindreader/internal/config"
	"github.com/robalobadob/mindreader/internal/game"
	"github.com/robalobadob/mindreader/internal/ledger"
	"github.com/robalobadob/mindreader/internal/store"
)

// Server bundles router, player store, ledger and configuration.
type Server struct {
	r          *chi.Mux
	cfg        config.Config
	players    store.Store
	ledger     *ledger.Ledger
	now        func() time.Time
	engineOpts []game.Option
	clockEvery time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithEngineOptions passes options to every engine the server creates.
func WithEngineOptions(opts ...game.Option) Option {
	return func(s *Server) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithClock replaces time.Now for daily seeds and ledger timestamps.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithClockInterval sets how often /game/clock pushes an update.
func WithClockInterval(d time.Duration) Option { return func(s *Server) { s.clockEvery = d } }

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, led *ledger.Ledger, opts ...Option) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		cfg:        cfg,
		players:    st,
		ledger:     led,
		now:        time.Now,
		clockEvery: time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped zerolog logger
	s.r.Use(accessLog)                   // one debug line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// websocket first: it must outlive the request timeout
	s.r.With(s.withPlayer).Get("/game/clock", s.handleClock)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"mindreader","endpoints":["/health","GET /game","POST /game/new","POST /game/guess","POST /game/hint","GET /game/clock","/stats/me","/games/mine","/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/leaderboard", s.handleLeaderboard)

		// Game + player endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Get("/game", s.handleState)
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Post("/game/hint", s.handleHint)
			r.Get("/stats/me", s.handleStats)
			r.Get("/games/mine", s.handleMine)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request through the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", playerTokenHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v; encoding failures are only logged since the header is gone.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("encode response")
	}
}
