package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	Submissions      *prometheus.CounterVec
	BoardSessions    prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_upstream_requests_total",
			Help: "Total number of upstream API requests by system and outcome.",
		}, []string{"system", "outcome"}),
		UpstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_upstream_request_duration_seconds",
			Help:    "Latency of upstream API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"system"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_product_submissions_total",
			Help: "Total number of marketplace product submissions by outcome.",
		}, []string{"outcome"}),
		BoardSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "backoffice_board_sessions",
			Help: "Current number of open order board sessions.",
		}),
	}
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(system, outcome string, elapsed time.Duration) {
	m.UpstreamRequests.WithLabelValues(system, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(system).Observe(elapsed.Seconds())
}

// ObserveSubmission records a product submission outcome.
func (m *Metrics) ObserveSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// SessionOpened and SessionClosed track open board sessions.
func (m *Metrics) SessionOpened() { m.BoardSessions.Inc() }
func (m *Metrics) SessionClosed() { m.BoardSessions.Dec() }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
