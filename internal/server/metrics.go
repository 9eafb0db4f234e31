package server

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors are registered against the default registry, which
// rejects duplicates, so the set is created once per process even when tests
// construct many Metrics values.
var (
	registerOnce sync.Once

	activeRequests     prometheus.Gauge
	requestsTotal      *prometheus.CounterVec
	searchesTotal      prometheus.Counter
	combinationsTotal  prometheus.Counter
	improvementsTotal  prometheus.Counter
	searchDurationSecs prometheus.Histogram
)

func registerCollectors() {
	registerOnce.Do(func() {
		activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "nearmiss_active_requests",
			Help: "Number of HTTP requests currently being served.",
		})
		requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nearmiss_requests_total",
			Help: "Total HTTP requests by path.",
		}, []string{"path"})
		searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "nearmiss_searches_total",
			Help: "Total search runs served by the API.",
		})
		combinationsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "nearmiss_combinations_checked_total",
			Help: "Total (x, y) combinations evaluated across all searches.",
		})
		improvementsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "nearmiss_improvements_total",
			Help: "Total best-result improvements observed across all searches.",
		})
		searchDurationSecs = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nearmiss_search_duration_seconds",
			Help:    "Wall-clock duration of API search runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		})
	})
}

// Metrics exposes the server's Prometheus instrumentation.
type Metrics struct {
	handler http.Handler
}

// NewMetrics registers the collectors (once) and returns a Metrics handle.
func NewMetrics() *Metrics {
	registerCollectors()
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests marks a request as in flight.
func (m *Metrics) IncrementActiveRequests() { activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { activeRequests.Dec() }

// CountRequest records one served request for the given path.
func (m *Metrics) CountRequest(path string) { requestsTotal.WithLabelValues(path).Inc() }

// ObserveSearch records the outcome of one API search run.
func (m *Metrics) ObserveSearch(checked, improvements uint64, seconds float64) {
	searchesTotal.Inc()
	combinationsTotal.Add(float64(checked))
	improvementsTotal.Add(float64(improvements))
	searchDurationSecs.Observe(seconds)
}

// WritePrometheus serves the metrics in Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
