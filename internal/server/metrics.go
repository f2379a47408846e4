package server

import "sync"

// Metrics holds in-process counters for the gateway. Counters are cheap and
// lock-guarded; the Prometheus exporter reads them via Snapshot.
type Metrics struct {
	mu sync.RWMutex

	// Submission metrics
	submitsTotal         int64
	submitsRejectedTotal int64
	submitErrorsTotal    int64

	// Read metrics
	listReadsTotal  int64
	statsReadsTotal int64

	// Request metrics
	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
	rateLimitedTotal int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordSubmit records a persisted score submission.
func (m *Metrics) RecordSubmit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitsTotal++
}

// RecordSubmitRejected records a submission that failed validation.
func (m *Metrics) RecordSubmitRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitsRejectedTotal++
}

// RecordSubmitError records a submission that failed at the store.
func (m *Metrics) RecordSubmitError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitErrorsTotal++
}

// RecordListRead records a served leaderboard read.
func (m *Metrics) RecordListRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listReadsTotal++
}

// RecordStatsRead records a served stats read.
func (m *Metrics) RecordStatsRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsReadsTotal++
}

// RecordRateLimited records a request rejected by a rate limit.
func (m *Metrics) RecordRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitedTotal++
}

// RecordRequest records one handled request by status class.
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	switch {
	case status >= 500:
		m.requestErrors5xx++
	case status >= 400:
		m.requestErrors4xx++
	}
}

// MetricsSnapshot is a consistent copy of all counters.
type MetricsSnapshot struct {
	SubmitsTotal         int64
	SubmitsRejectedTotal int64
	SubmitErrorsTotal    int64
	ListReadsTotal       int64
	StatsReadsTotal      int64
	RequestsTotal        int64
	RequestErrors4xx     int64
	RequestErrors5xx     int64
	RateLimitedTotal     int64
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		SubmitsTotal:         m.submitsTotal,
		SubmitsRejectedTotal: m.submitsRejectedTotal,
		SubmitErrorsTotal:    m.submitErrorsTotal,
		ListReadsTotal:       m.listReadsTotal,
		StatsReadsTotal:      m.statsReadsTotal,
		RequestsTotal:        m.requestsTotal,
		RequestErrors4xx:     m.requestErrors4xx,
		RequestErrors5xx:     m.requestErrors5xx,
		RateLimitedTotal:     m.rateLimitedTotal,
	}
}
