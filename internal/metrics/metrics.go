// Package metrics provides the Prometheus metrics exported by gostcat.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/gostcat/pkg/mirror"
)

// Metrics holds every collector, registered on a private registry so that
// multiple instances (tests, CLI) never collide on the global one.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SyncOutcomesTotal *prometheus.CounterVec
	SyncDuration      prometheus.Histogram

	SearchesTotal         *prometheus.CounterVec
	FallbacksTotal        prometheus.Counter
	ComplianceChecksTotal *prometheus.CounterVec
	RecordMutationsTotal  *prometheus.CounterVec
}

// New creates and registers all metrics along with the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gostcat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gostcat_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		SyncOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gostcat_mirror_sync_total",
				Help: "Mirror sync runs by outcome",
			},
			[]string{"status"},
		),
		SyncDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gostcat_mirror_sync_duration_seconds",
				Help:    "Duration of mirror sync runs in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gostcat_searches_total",
				Help: "Searches by table and result",
			},
			[]string{"table", "result"},
		),
		FallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gostcat_assistant_fallbacks_total",
				Help: "Searches answered by the assistant fallback",
			},
		),
		ComplianceChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gostcat_compliance_checks_total",
				Help: "Compliance evaluations by reason",
			},
			[]string{"reason"},
		),
		RecordMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gostcat_record_mutations_total",
				Help: "Committed record store mutations by operation",
			},
			[]string{"operation"},
		),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest matches middleware.RequestObserver.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveSync matches mirror.Observer.
func (m *Metrics) ObserveSync(out mirror.Outcome) {
	if m == nil {
		return
	}
	m.SyncOutcomesTotal.WithLabelValues(string(out.Status)).Inc()
	m.SyncDuration.Observe(float64(out.DurationMS) / 1000)
}

// ObserveSearch counts a search over table ("records" or "reference") with
// result "matched", "empty", or "fallback".
func (m *Metrics) ObserveSearch(table, result string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(table, result).Inc()
	if result == "fallback" {
		m.FallbacksTotal.Inc()
	}
}

// ObserveCompliance counts an evaluation by its reason.
func (m *Metrics) ObserveCompliance(reason string) {
	if m == nil {
		return
	}
	m.ComplianceChecksTotal.WithLabelValues(reason).Inc()
}

// ObserveMutation counts a committed store mutation.
func (m *Metrics) ObserveMutation(operation string) {
	if m == nil {
		return
	}
	m.RecordMutationsTotal.WithLabelValues(operation).Inc()
}
