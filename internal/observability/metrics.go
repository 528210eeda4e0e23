package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for weather lookups.
type Metrics struct {
	Lookups            *prometheus.CounterVec // labels: outcome={success,upstream_error,malformed,rejected,canceled}
	UpstreamDuration   prometheus.Histogram
	UpstreamResponses  *prometheus.CounterVec // labels: status (HTTP status code, "error" when no response)
	Cache              *prometheus.CounterVec // labels: result={hit,miss}
	EventPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all service metrics and registers them with reg.
// The CLI passes a private registry so repeated runs in one process never
// collide.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := NewMetricsForTesting()
	reg.MustRegister(
		m.Lookups,
		m.UpstreamDuration,
		m.UpstreamResponses,
		m.Cache,
		m.EventPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pogodynka",
			Name:      "lookups_total",
			Help:      "Weather lookups by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pogodynka",
			Name:      "upstream_request_duration_seconds",
			Help:      "weatherapi.com request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pogodynka",
			Name:      "upstream_responses_total",
			Help:      "weatherapi.com responses by HTTP status.",
		}, []string{"status"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pogodynka",
			Name:      "cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pogodynka",
			Name:      "event_publish_errors_total",
			Help:      "Lookup events that could not be published.",
		}),
	}
}
