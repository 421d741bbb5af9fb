// Package metrics defines the Prometheus collectors exported by rfcsite.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every rfcsite collector on its own registry so that
// tests can create independent instances.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec

	RebuildsTotal          *prometheus.CounterVec
	RebuildDurationSeconds prometheus.Histogram

	Documents   prometheus.Gauge
	TOCEntries  prometheus.Gauge
	LiveClients prometheus.Gauge

	BuildInfo *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rfcsite_http_requests_total",
				Help: "Total HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rfcsite_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),

		RebuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rfcsite_rebuilds_total",
				Help: "Site rebuilds triggered by content changes.",
			},
			[]string{"result"},
		),
		RebuildDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rfcsite_rebuild_duration_seconds",
				Help:    "Duration of site rebuilds in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
		),

		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rfcsite_documents",
			Help: "Documents in the current site snapshot.",
		}),
		TOCEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rfcsite_toc_entries",
			Help: "Entries in the RFC table of contents.",
		}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rfcsite_livereload_clients",
			Help: "Browsers connected for live reload.",
		}),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rfcsite_info",
				Help: "Build information.",
			},
			[]string{"version"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.RebuildsTotal,
		m.RebuildDurationSeconds,
		m.Documents,
		m.TOCEntries,
		m.LiveClients,
		m.BuildInfo,
	)
	m.BuildInfo.WithLabelValues(version).Set(1)
	return m
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(method, route, s).Inc()
	m.RequestDurationSeconds.WithLabelValues(method, route, s).Observe(d.Seconds())
}

// ObserveRebuild records one rebuild attempt.
func (m *Metrics) ObserveRebuild(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RebuildsTotal.WithLabelValues(result).Inc()
	m.RebuildDurationSeconds.Observe(d.Seconds())
}

// SetSnapshot records the size of the site being served.
func (m *Metrics) SetSnapshot(documents, tocEntries int) {
	m.Documents.Set(float64(documents))
	m.TOCEntries.Set(float64(tocEntries))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
