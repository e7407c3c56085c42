package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for analyses, the queue and the HTTP API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsCreated   prometheus.Counter
	RunsCompleted prometheus.Counter
	RunsFailed    prometheus.Counter

	AnalysisDuration prometheus.Histogram
	StageDuration    *prometheus.HistogramVec

	QueueDepth prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// DefaultMetrics registers the metrics with the default registry once and
// returns the shared instance
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

// NewMetrics creates the metrics and registers them with reg.
//
// All metrics are prefixed with "matcher_":
//   - matcher_runs_created_total, matcher_runs_completed_total, matcher_runs_failed_total
//   - matcher_analysis_duration_seconds and matcher_stage_duration_seconds{stage}
//   - matcher_queue_depth
//   - matcher_http_requests_total{method,route,status} and matcher_http_request_duration_seconds{route}
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "matcher_runs_created_total",
			Help: "Total number of analysis runs created",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "matcher_runs_completed_total",
			Help: "Total number of analysis runs completed",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "matcher_runs_failed_total",
			Help: "Total number of analysis runs failed",
		}),

		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "matcher_analysis_duration_seconds",
			Help:    "Duration of complete analyses in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matcher_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"stage"}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "matcher_queue_depth",
			Help: "Number of analysis runs queued or running in this process",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "matcher_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matcher_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordRunCreated counts a new run
func (m *Metrics) RecordRunCreated() {
	if m == nil {
		return
	}
	m.RunsCreated.Inc()
}

// RecordRunFinished counts a terminal run and observes its duration
func (m *Metrics) RecordRunFinished(succeeded bool, seconds float64) {
	if m == nil {
		return
	}
	if succeeded {
		m.RunsCompleted.Inc()
	} else {
		m.RunsFailed.Inc()
	}
	m.AnalysisDuration.Observe(seconds)
}

// RecordStage observes the duration of one pipeline stage
func (m *Metrics) RecordStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// SetQueueDepth updates the queue depth gauge
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}

// RecordHTTPRequest counts one HTTP request and observes its duration
func (m *Metrics) RecordHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}
