package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resolution pipeline and conversation engine.
type Metrics struct {
	// Resolution pipeline metrics.
	ResolveAttempts *prometheus.CounterVec // labels: tier={exif,vision,manual}, outcome={resolved,degraded}

	// Reverse geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram

	// Model backend metrics.
	VisionRequests     *prometheus.CounterVec   // labels: outcome={success,error,invalid}
	CompletionRequests *prometheus.CounterVec   // labels: kind={intro,questions,answer}, outcome={success,error}
	CompletionDuration *prometheus.HistogramVec // labels: kind

	// Session lifecycle metrics.
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsPruned  prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ResolveAttempts,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.VisionRequests,
		m.CompletionRequests,
		m.CompletionDuration,
		m.SessionsActive,
		m.SessionsCreated,
		m.SessionsPruned,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ResolveAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "resolve_attempts_total",
			Help:      "Location resolution attempts by tier and outcome.",
		}, []string{"tier", "outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "locale_scout",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		VisionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "vision_requests_total",
			Help:      "Vision location inference requests by outcome.",
		}, []string{"outcome"}),
		CompletionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "completion_requests_total",
			Help:      "Chat completion requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "locale_scout",
			Name:      "completion_duration_seconds",
			Help:      "Chat completion request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "locale_scout",
			Name:      "sessions_active",
			Help:      "Number of live sessions held in memory.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "sessions_created_total",
			Help:      "Total sessions created.",
		}),
		SessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "locale_scout",
			Name:      "sessions_pruned_total",
			Help:      "Total sessions removed by TTL pruning.",
		}),
	}
}
