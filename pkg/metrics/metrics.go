// Package metrics exposes Prometheus metrics for the coursepaper server.
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

// Export results.
const (
	ExportOK        = "ok"
	ExportNoContent = "no_container"
	ExportError     = "error"
)

// Registry holds all metrics of one server instance.
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Document Metrics
	DiagramRendersTotal *prometheus.CounterVec
	DiagramCacheHits    *prometheus.CounterVec
	ExportsTotal        *prometheus.CounterVec
	DownloadsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialised, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initDocumentMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepaper_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursepaper_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepaper_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initDocumentMetrics() {
	r.DiagramRendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepaper_diagram_renders_total",
			Help: "Diagrams drawn, by diagram and output format",
		},
		[]string{"diagram", "format"},
	)

	r.DiagramCacheHits = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepaper_diagram_cache_hits_total",
			Help: "Diagram requests served from the cache",
		},
		[]string{"diagram", "format"},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepaper_exports_total",
			Help: "Word exports by result",
		},
		[]string{"result"},
	)

	r.DownloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepaper_downloads_total",
			Help: "Download requests by outcome (served or missing)",
		},
		[]string{"outcome"},
	)
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// RecordRender records a diagram render; cached renders count as hits only.
func (r *Registry) RecordRender(diagram, format string, cached bool) {
	if cached {
		r.DiagramCacheHits.WithLabelValues(diagram, format).Inc()
		return
	}
	r.DiagramRendersTotal.WithLabelValues(diagram, format).Inc()
}

// RecordExport records the result of an export.
func (r *Registry) RecordExport(result string) {
	r.ExportsTotal.WithLabelValues(result).Inc()
}

// RecordDownload records a download attempt.
func (r *Registry) RecordDownload(served bool) {
	outcome := "missing"
	if served {
		outcome = "served"
	}
	r.DownloadsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
