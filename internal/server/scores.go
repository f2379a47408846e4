package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	topListSize = 20
	maxNameLen  = 20
	maxScore    = 999999
)

// handleScores dispatches /api/scores by method: GET lists the leaderboard,
// POST submits a new score.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listScores(w, r)
	case http.MethodPost:
		s.submitScore(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listScores(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.TopScores(r.Context(), topListSize)
	if err != nil {
		Error("list scores failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
		}, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch scores")
		return
	}

	GetMetrics().RecordListRead()
	writeJSON(w, http.StatusOK, map[string]any{"scores": entries})
}

// submitScoreReq holds the raw submission. Fields are decoded loosely so a
// wrong-typed value reports which field failed instead of a generic decode
// error. Numbers stay json.Number to tell integers from floats.
type submitScoreReq struct {
	Name  any `json:"name"`
	Score any `json:"score"`
}

func (s *Server) submitScore(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req submitScoreReq
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, ok := validateName(req.Name)
	if !ok {
		GetMetrics().RecordSubmitRejected()
		writeError(w, http.StatusBadRequest, "invalid name: must be 1-20 characters")
		return
	}

	score, ok := validateScore(req.Score)
	if !ok {
		GetMetrics().RecordSubmitRejected()
		writeError(w, http.StatusBadRequest, "invalid score: must be an integer between 0 and 999999")
		return
	}

	entry, err := s.store.InsertScore(r.Context(), sanitizeName(name), score)
	if err != nil {
		GetMetrics().RecordSubmitError()
		Error("insert score failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"score":      score,
		}, err)
		writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	GetMetrics().RecordSubmit()
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"entry":   entry,
	})
}

// validateName checks that the submitted name is a string whose trimmed
// length is 1-20 characters and returns the trimmed value. The length check
// runs before sanitization so stripped angle brackets still count toward it.
func validateName(v any) (string, bool) {
	raw, ok := v.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(trimmed); n < 1 || n > maxNameLen {
		return "", false
	}
	return trimmed, true
}

// validateScore checks that the submitted score is an integer in
// [0, maxScore]. Floats, strings, and out-of-range values are rejected.
func validateScore(v any) (int, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	if n < 0 || n > maxScore {
		return 0, false
	}
	return int(n), true
}

var nameSanitizer = strings.NewReplacer("<", "", ">", "")

// sanitizeName strips angle brackets so a name can never smuggle markup into
// a naive client render. Applied after validation, just before persisting.
func sanitizeName(name string) string {
	return nameSanitizer.Replace(name)
}
