// Package metrics exposes Prometheus collectors for the fetch endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "csvfetch"

// Metrics holds the service's collectors and the registry they live in.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	RowsServed    prometheus.Counter
	BytesRead     prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance with Go runtime and process collectors
// registered alongside the fetch collectors.
func New() *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "requests_total",
				Help:      "Total number of fetch requests by outcome and error code",
			},
			[]string{"outcome", "code"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "duration_seconds",
				Help:      "Time spent reading, decoding and encoding the CSV source",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RowsServed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "rows_served_total",
				Help:      "Total number of CSV rows returned",
			},
		),
		BytesRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "source_bytes_read_total",
				Help:      "Total number of bytes read from the CSV source",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.RowsServed,
		m.BytesRead,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterInFlight exposes a gauge backed by fn, typically the fetch
// limiter's active count.
func (m *Metrics) RegisterInFlight(fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "in_flight",
			Help:      "Number of fetches currently reading the source",
		},
		fn,
	))
}

// ObserveSuccess records a completed fetch.
func (m *Metrics) ObserveSuccess(rows int, bytesRead int64, elapsed time.Duration) {
	m.FetchTotal.WithLabelValues("success", "").Inc()
	m.FetchDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	m.RowsServed.Add(float64(rows))
	m.BytesRead.Add(float64(bytesRead))
}

// ObserveError records a failed fetch under its error code.
func (m *Metrics) ObserveError(code string, elapsed time.Duration) {
	m.FetchTotal.WithLabelValues("error", code).Inc()
	m.FetchDuration.WithLabelValues("error").Observe(elapsed.Seconds())
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
