package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// Config is the immutable gateway configuration, constructed once in main
// and injected here. Credentials are read-only after startup; there is no
// other shared mutable state.
type Config struct {
	Addr  string // e.g. ":8080"
	Build BuildInfo

	// StoreURL and StoreAnonKey are the public store endpoint and the
	// restricted credential returned by /api/config. Either may be empty,
	// which makes that endpoint answer 503.
	StoreURL     string
	StoreAnonKey string

	// HasServiceDSN records whether the elevated credential was provided.
	// Reported by /health, never used for authorization.
	HasServiceDSN bool

	AllowedOrigin string // CORS origin, "*" allows any
	StaticDir     string // SPA asset root

	RateLimits RateLimitConfig
}

// Server is the leaderboard HTTP gateway.
type Server struct {
	httpServer *http.Server
	cfg        Config
	store      ScoreStore
	db         *sql.DB
}

// New builds the gateway: routes, middleware chain, and HTTP server. db may
// be nil in handler tests that only exercise store-backed routes through a
// fake ScoreStore.
func New(cfg Config, store ScoreStore, db *sql.DB) *Server {
	s := &Server{cfg: cfg, store: store, db: db}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.handleClientConfig)
	mux.HandleFunc("/api/scores", s.handleScores)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", NewPrometheusExporter().Handler())
	mux.Handle("/", s.spaHandler())

	// Outermost first: headers -> CORS -> request id -> access log -> limits.
	var handler http.Handler = mux
	handler = newRouteLimits(cfg.RateLimits).middleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = corsMiddleware(cfg.AllowedOrigin)(handler)
	handler = securityHeadersMiddleware(cfg.StoreURL)(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens and serves until Shutdown or a listener error.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
