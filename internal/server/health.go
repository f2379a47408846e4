package server

import (
	"context"
	"net/http"
	"time"
)

// envPresence reports which of the three configuration values the process
// was started with. Diagnostic only; never consulted for authorization.
type envPresence struct {
	Supabase bool `json:"supabase"`
	AnonKey  bool `json:"anonKey"`
	SvcKey   bool `json:"svcKey"`
}

type healthResponse struct {
	Status string      `json:"status"`
	TS     string      `json:"ts"`
	Env    envPresence `json:"env"`
}

// handleHealth answers 200 with the current timestamp and configuration
// presence flags. It deliberately does not touch the store; use /ready for
// a probe that does.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		TS:     time.Now().UTC().Format(time.RFC3339),
		Env: envPresence{
			Supabase: s.cfg.StoreURL != "",
			AnonKey:  s.cfg.StoreAnonKey != "",
			SvcKey:   s.cfg.HasServiceDSN,
		},
	})
}

// handleReady is the readiness probe for load balancers: a trivial query
// against the store with a short timeout.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"ts":     time.Now().UTC().Format(time.RFC3339),
	})
}
