package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the api and worker processes.
// All metrics are prefixed with "library_".
//
//   - library_http_requests_total{route,method,code}
//   - library_http_request_duration_seconds{route,method}
//   - library_admin_rate_limited_total
//   - library_articles_announced_total
//   - library_outbox_relayed_total
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AdminRateLimited    prometheus.Counter
	ArticlesAnnounced   prometheus.Counter
	OutboxRelayed       prometheus.Counter
}

// New registers collectors on a private registry so tests and processes
// never collide on the global one.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_http_requests_total",
				Help: "Total HTTP requests by route pattern, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		AdminRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "library_admin_rate_limited_total",
			Help: "Admin requests rejected by the per-client rate limiter",
		}),
		ArticlesAnnounced: factory.NewCounter(prometheus.CounterOpts{
			Name: "library_articles_announced_total",
			Help: "Articles stamped as announced by the publication announcer",
		}),
		OutboxRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "library_outbox_relayed_total",
			Help: "Outbox events published to the event bus",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnnounced implements ports.WorkerMetrics.
func (m *Metrics) ObserveAnnounced(count int) {
	m.ArticlesAnnounced.Add(float64(count))
}

// ObserveRelayed implements ports.WorkerMetrics.
func (m *Metrics) ObserveRelayed(count int) {
	m.OutboxRelayed.Add(float64(count))
}

// Instrument wraps next and records count and latency under route.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
