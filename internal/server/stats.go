package server

import "net/http"

// handleStats reports the total number of stored games and the current
// all-time high entry (null when the table is empty).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.store.Stats(r.Context())
	if err != nil {
		Error("stats query failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
		}, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}

	GetMetrics().RecordStatsRead()
	writeJSON(w, http.StatusOK, stats)
}
