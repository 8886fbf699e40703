package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so library code can take one unconditionally.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Filesystem metrics
	FSOperations  *prometheus.CounterVec
	FSDuration    *prometheus.HistogramVec
	FSEscapes     *prometheus.CounterVec
	FilesListed   prometheus.Histogram
	RateLimitHits prometheus.Counter

	startTime time.Time
	snapshot  MetricsSnapshot
	mu        sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON health API
type MetricsSnapshot struct {
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
	TotalEscapes  int64   `json:"total_escapes"`
	AvgLatencyMS  float64 `json:"avg_latency_ms"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector registered on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{startTime: time.Now()}

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confine_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.RequestSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confine_http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000},
		},
		[]string{"method", "path"},
	)
	m.ResponseSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confine_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		},
		[]string{"method", "path"},
	)

	m.ServiceCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confine_service_calls_total",
			Help: "Total number of service tool calls",
		},
		[]string{"service", "method", "status"},
	)
	m.ServiceDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confine_service_duration_seconds",
			Help:    "Service tool call duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"service", "method"},
	)
	m.ServiceErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confine_service_errors_total",
			Help: "Total number of failed service tool calls",
		},
		[]string{"service", "method", "error_type"},
	)

	m.FSOperations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confine_fs_operations_total",
			Help: "Total number of filesystem operations by result kind",
		},
		[]string{"op", "status"},
	)
	m.FSDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confine_fs_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"op"},
	)
	m.FSEscapes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confine_fs_escapes_total",
			Help: "Requests rejected for resolving outside their root",
		},
		[]string{"op"},
	)
	m.FilesListed = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "confine_fs_listed_files",
			Help:    "Number of files returned per listing",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	m.RateLimitHits = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "confine_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "confine_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordServiceError records a service error
func (m *Metrics) RecordServiceError(service, method, errorType string) {
	if m == nil {
		return
	}
	m.ServiceErrors.WithLabelValues(service, method, errorType).Inc()
}

// RecordFSOperation records one filesystem operation and its result kind
func (m *Metrics) RecordFSOperation(op, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.FSOperations.WithLabelValues(op, status).Inc()
	m.FSDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordEscape counts a path rejected for leaving its root
func (m *Metrics) RecordEscape(op string) {
	if m == nil {
		return
	}
	m.FSEscapes.WithLabelValues(op).Inc()
	m.mu.Lock()
	m.snapshot.TotalEscapes++
	m.mu.Unlock()
}

// ObserveListed records the size of a listing
func (m *Metrics) ObserveListed(count int) {
	if m == nil {
		return
	}
	m.FilesListed.Observe(float64(count))
}

// IncRateLimited counts a request rejected by the rate limiter
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitHits.Inc()
}

// Snapshot returns the current values used by the health endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()

	if snap.TotalRequests > 0 {
		snap.AvgLatencyMS = snap.totalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
