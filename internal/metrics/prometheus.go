package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the dashboard collectors. Each instance registers on its own
// registerer so tests can use a throwaway registry.
type Metrics struct {
	registry prometheus.Gatherer

	ViewBuildDuration *prometheus.HistogramVec
	FilterChanges     *prometheus.CounterVec
	SessionsActive    prometheus.Gauge
	SessionsCreated   prometheus.Counter
	SessionsClosed    *prometheus.CounterVec
	RequestTotal      *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	DatasetRecords    prometheus.Gauge
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		ViewBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "collab_dashboard_view_build_duration_seconds",
				Help:    "Time spent rebuilding a dashboard view",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"view"},
		),
		FilterChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collab_dashboard_filter_changes_total",
				Help: "Total filter mutations applied to session stores",
			},
			[]string{"key"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "collab_dashboard_sessions_active",
				Help: "Number of open dashboard sessions",
			},
		),
		SessionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "collab_dashboard_sessions_created_total",
				Help: "Total dashboard sessions created",
			},
		),
		SessionsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collab_dashboard_sessions_closed_total",
				Help: "Total dashboard sessions closed",
			},
			[]string{"reason"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collab_dashboard_requests_total",
				Help: "Total RPC and HTTP requests handled",
			},
			[]string{"transport", "method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "collab_dashboard_request_duration_seconds",
				Help:    "Request handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport", "method"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collab_dashboard_cache_lookups_total",
				Help: "View cache lookups by result",
			},
			[]string{"result"},
		),
		DatasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "collab_dashboard_dataset_records",
				Help: "Number of evaluation records in the loaded dataset",
			},
		),
	}

	reg.MustRegister(
		m.ViewBuildDuration,
		m.FilterChanges,
		m.SessionsActive,
		m.SessionsCreated,
		m.SessionsClosed,
		m.RequestTotal,
		m.RequestDuration,
		m.CacheLookups,
		m.DatasetRecords,
	)
	return m
}

// NewDefault registers the collectors on a fresh registry that also carries
// the Go runtime and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// ObserveBuild has the shape of service.BuildObserver.
func (m *Metrics) ObserveBuild(view string, took time.Duration) {
	m.ViewBuildDuration.WithLabelValues(view).Observe(took.Seconds())
}

func (m *Metrics) FilterChanged(key string) {
	m.FilterChanges.WithLabelValues(key).Inc()
}

func (m *Metrics) SessionOpened() {
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

func (m *Metrics) SessionClosed(reason string) {
	m.SessionsClosed.WithLabelValues(reason).Inc()
	m.SessionsActive.Dec()
}

func (m *Metrics) ObserveRequest(transport, method, code string, took time.Duration) {
	m.RequestTotal.WithLabelValues(transport, method, code).Inc()
	m.RequestDuration.WithLabelValues(transport, method).Observe(took.Seconds())
}

func (m *Metrics) CacheResult(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
