package server

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the machine-readable error shape every failing endpoint
// uses: {"error": msg}. msg must never contain store diagnostics; log those
// server-side instead.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
