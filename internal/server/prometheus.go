// prometheus.go - Prometheus text-format exporter for the gateway counters.
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// PrometheusExporter converts internal metrics to Prometheus exposition
// format.
type PrometheusExporter struct{}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter() *PrometheusExporter {
	return &PrometheusExporter{}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (p *PrometheusExporter) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snap := GetMetrics().Snapshot()

		var out strings.Builder
		counter := func(name, help string, value int64) {
			out.WriteString("# HELP " + name + " " + help + "\n")
			out.WriteString("# TYPE " + name + " counter\n")
			fmt.Fprintf(&out, "%s %d\n\n", name, value)
		}

		counter("lbg_requests_total", "Total number of HTTP requests", snap.RequestsTotal)
		counter("lbg_request_errors_4xx_total", "Requests answered with a 4xx status", snap.RequestErrors4xx)
		counter("lbg_request_errors_5xx_total", "Requests answered with a 5xx status", snap.RequestErrors5xx)
		counter("lbg_rate_limited_total", "Requests rejected by a rate limit", snap.RateLimitedTotal)
		counter("lbg_score_submits_total", "Score submissions persisted", snap.SubmitsTotal)
		counter("lbg_score_submits_rejected_total", "Score submissions failing validation", snap.SubmitsRejectedTotal)
		counter("lbg_score_submit_errors_total", "Score submissions failing at the store", snap.SubmitErrorsTotal)
		counter("lbg_leaderboard_reads_total", "Leaderboard list reads served", snap.ListReadsTotal)
		counter("lbg_stats_reads_total", "Stats reads served", snap.StatsReadsTotal)

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out.String()))
	}
}
