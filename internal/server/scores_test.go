package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeStore is an in-memory ScoreStore for handler tests.
type fakeStore struct {
	entries   []ScoreEntry
	inserted  []ScoreEntry
	nextID    int64
	insertErr error
	listErr   error
	statsErr  error
}

func (f *fakeStore) TopScores(_ context.Context, limit int) ([]ScoreEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeStore) InsertScore(_ context.Context, name string, score int) (ScoreEntry, error) {
	if f.insertErr != nil {
		return ScoreEntry{}, f.insertErr
	}
	f.nextID++
	e := ScoreEntry{ID: f.nextID, Name: name, Score: score, CreatedAt: time.Now().UTC()}
	f.inserted = append(f.inserted, e)
	return e, nil
}

func (f *fakeStore) Stats(_ context.Context) (Stats, error) {
	if f.statsErr != nil {
		return Stats{}, f.statsErr
	}
	s := Stats{TotalGames: int64(len(f.entries))}
	if len(f.entries) > 0 {
		s.AllTimeHigh = &HighScore{Name: f.entries[0].Name, Score: f.entries[0].Score}
	}
	return s, nil
}

func (f *fakeStore) AllScores(_ context.Context) ([]ScoreEntry, error) {
	return f.entries, nil
}

func newTestServer(store ScoreStore) *Server {
	return New(Config{
		Addr:          ":0",
		StoreURL:      "https://example.supabase.co",
		StoreAnonKey:  "anon-key",
		HasServiceDSN: true,
		AllowedOrigin: "*",
		StaticDir:     ".",
		RateLimits:    DefaultRateLimitConfig(),
	}, store, nil)
}

func postScore(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handleScores(w, req)
	return w
}

func TestSubmitScore_Valid(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store)

	w := postScore(t, s, `{"name":"Alice","score":100}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool       `json:"success"`
		Entry   ScoreEntry `json:"entry"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Entry.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if resp.Entry.CreatedAt.IsZero() {
		t.Error("expected server-assigned timestamp")
	}
	if resp.Entry.Name != "Alice" || resp.Entry.Score != 100 {
		t.Errorf("unexpected entry: %+v", resp.Entry)
	}
}

func TestSubmitScore_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":"","score":10}`},
		{"whitespace name", `{"name":"   ","score":10}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 21) + `","score":10}`},
		{"name not a string", `{"name":42,"score":10}`},
		{"name missing", `{"score":10}`},
		{"negative score", `{"name":"Bob","score":-1}`},
		{"score too large", `{"name":"Bob","score":1000000}`},
		{"float score", `{"name":"Bob","score":1.5}`},
		{"string score", `{"name":"Bob","score":"10"}`},
		{"score missing", `{"name":"Bob"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s := newTestServer(store)

			w := postScore(t, s, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if len(store.inserted) != 0 {
				t.Errorf("no row should be created, got %d", len(store.inserted))
			}
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp["error"] == "" {
				t.Error("expected error field in body")
			}
		})
	}
}

func TestSubmitScore_BoundaryValues(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store)

	for _, body := range []string{
		`{"name":"A","score":0}`,
		`{"name":"` + strings.Repeat("b", 20) + `","score":999999}`,
	} {
		if w := postScore(t, s, body); w.Code != http.StatusCreated {
			t.Errorf("boundary submission %s: expected 201, got %d", body, w.Code)
		}
	}
}

func TestSubmitScore_SanitizesAfterLengthCheck(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store)

	// 10 characters before sanitization, so it passes the length check;
	// persisted with the angle brackets stripped.
	w := postScore(t, s, `{"name":"<b>Bob</b>","score":5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.inserted[0].Name; got != "bBob/b" {
		t.Errorf("expected sanitized name %q, got %q", "bBob/b", got)
	}

	// Exactly 20 characters counting the brackets: valid before
	// sanitization even though fewer characters are persisted.
	w = postScore(t, s, `{"name":"<<<<<<<<<<<<<<<<<<<A","score":5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for 20-char name, got %d", w.Code)
	}
	if got := store.inserted[1].Name; got != "A" {
		t.Errorf("expected %q after sanitization, got %q", "A", got)
	}
}

func TestSubmitScore_TrimsName(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store)

	if w := postScore(t, s, `{"name":"  Carol  ","score":7}`); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if got := store.inserted[0].Name; got != "Carol" {
		t.Errorf("expected trimmed name %q, got %q", "Carol", got)
	}
}

func TestSubmitScore_StoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("pq: connection refused to 10.0.0.5")}
	s := newTestServer(store)

	w := postScore(t, s, `{"name":"Dave","score":9}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	// Store diagnostics must not leak to the caller.
	if strings.Contains(w.Body.String(), "10.0.0.5") || strings.Contains(w.Body.String(), "pq:") {
		t.Errorf("store error leaked to client: %s", w.Body.String())
	}
}

func TestSubmitScore_MalformedBody(t *testing.T) {
	s := newTestServer(&fakeStore{})
	if w := postScore(t, s, `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestListScores(t *testing.T) {
	entries := make([]ScoreEntry, 0, 25)
	for i := 0; i < 25; i++ {
		entries = append(entries, ScoreEntry{
			ID:        int64(i + 1),
			Name:      "player",
			Score:     1000 - i,
			CreatedAt: time.Now().UTC(),
		})
	}
	s := newTestServer(&fakeStore{entries: entries})

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	w := httptest.NewRecorder()
	s.handleScores(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Scores []ScoreEntry `json:"scores"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Scores) != topListSize {
		t.Errorf("expected %d scores, got %d", topListSize, len(resp.Scores))
	}
	for i := 1; i < len(resp.Scores); i++ {
		if resp.Scores[i].Score > resp.Scores[i-1].Score {
			t.Errorf("scores not descending at index %d", i)
		}
	}
}

func TestListScores_StoreFailure(t *testing.T) {
	s := newTestServer(&fakeStore{listErr: errors.New("dial tcp: timeout")})

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	w := httptest.NewRecorder()
	s.handleScores(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "dial tcp") {
		t.Errorf("store error leaked to client: %s", w.Body.String())
	}
}

func TestScores_MethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/scores", nil)
	w := httptest.NewRecorder()
	s.handleScores(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
