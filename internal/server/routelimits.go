// routelimits.go - Per-route rate limits for the leaderboard API.
//
// Two ceilings apply: a general one across all /api routes, and a much
// stricter one on score submission to blunt leaderboard flooding.
package server

import (
	"net/http"
	"strings"
	"time"
)

// RateLimitConfig holds the per-route request ceilings.
type RateLimitConfig struct {
	APIRate      int           // requests per APIWindow across all /api routes
	APIWindow    time.Duration
	SubmitRate   int           // POSTs per SubmitWindow to /api/scores
	SubmitWindow time.Duration
}

// DefaultRateLimitConfig returns the production ceilings: 300 requests per
// 15 minutes for the API overall, 5 submissions per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		APIRate:      300,
		APIWindow:    15 * time.Minute,
		SubmitRate:   5,
		SubmitWindow: time.Minute,
	}
}

// routeLimits applies the configured ceilings by path. Static assets and
// probes are not limited.
type routeLimits struct {
	api    *rateLimiter
	submit *rateLimiter
}

func newRouteLimits(cfg RateLimitConfig) *routeLimits {
	return &routeLimits{
		api:    newRateLimiter(cfg.APIRate, cfg.APIWindow),
		submit: newRateLimiter(cfg.SubmitRate, cfg.SubmitWindow),
	}
}

func (rl *routeLimits) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !strings.HasPrefix(path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		ip := getClientIP(r)

		// The submission ceiling is checked first so a flooding client is
		// told about the stricter limit, not the general one.
		if r.Method == http.MethodPost && path == "/api/scores" {
			if !rl.submit.allow(ip) {
				rl.reject(w, r, ip, "submit")
				return
			}
		}

		if !rl.api.allow(ip) {
			rl.reject(w, r, ip, "api")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *routeLimits) reject(w http.ResponseWriter, r *http.Request, ip, limitType string) {
	GetMetrics().RecordRateLimited()
	Warn("rate limit exceeded", map[string]any{
		"ip":         ip,
		"path":       r.URL.Path,
		"method":     r.Method,
		"limit_type": limitType,
	})

	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}
