package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStats_EmptyTable(t *testing.T) {
	s := newTestServer(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	s.handleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	var resp struct {
		TotalGames  int64            `json:"totalGames"`
		AllTimeHigh *json.RawMessage `json:"allTimeHigh"`
	}
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalGames != 0 {
		t.Errorf("expected totalGames=0, got %d", resp.TotalGames)
	}
	if resp.AllTimeHigh != nil && string(*resp.AllTimeHigh) != "null" {
		t.Errorf("expected allTimeHigh=null, got %s", string(*resp.AllTimeHigh))
	}
	// The field must be present even when null.
	if !strings.Contains(body, "allTimeHigh") {
		t.Error("allTimeHigh field missing from response")
	}
}

func TestStats_WithEntries(t *testing.T) {
	s := newTestServer(&fakeStore{entries: []ScoreEntry{
		{ID: 1, Name: "Eve", Score: 500},
		{ID: 2, Name: "Mallory", Score: 300},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	s.handleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp Stats
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalGames != 2 {
		t.Errorf("expected totalGames=2, got %d", resp.TotalGames)
	}
	if resp.AllTimeHigh == nil || resp.AllTimeHigh.Name != "Eve" || resp.AllTimeHigh.Score != 500 {
		t.Errorf("unexpected allTimeHigh: %+v", resp.AllTimeHigh)
	}
}

func TestStats_StoreFailure(t *testing.T) {
	s := newTestServer(&fakeStore{statsErr: errors.New("connection reset")})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	s.handleStats(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Errorf("store error leaked to client: %s", w.Body.String())
	}
}
