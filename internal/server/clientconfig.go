package server

import "net/http"

// handleClientConfig hands the browser the public store endpoint and the
// restricted (read/insert-only) credential so it can query the store
// directly. The elevated credential never appears here. If either value is
// missing the endpoint fails whole; a partial credential is never returned.
func (s *Server) handleClientConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.cfg.StoreURL == "" || s.cfg.StoreAnonKey == "" {
		writeError(w, http.StatusServiceUnavailable, "service not configured")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"supabaseUrl": s.cfg.StoreURL,
		"supabaseKey": s.cfg.StoreAnonKey,
	})
}
