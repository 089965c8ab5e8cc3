package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "evalview"

const (
	uploadAccepted    = "accepted"
	uploadInvalid     = "invalid"
	uploadTooLarge    = "too_large"
	uploadRateLimited = "rate_limited"
)

// metrics are registered on a per-server registry so several servers can
// live in one process.
type metrics struct {
	registry         *prometheus.Registry
	uploads          *prometheus.CounterVec
	reports          *prometheus.CounterVec
	sessions         prometheus.Gauge
	sessionEvictions prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "uploads_total",
			Help:      "Count of log uploads by result",
		}, []string{"result"}),
		reports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_rendered_total",
			Help:      "Count of rendered reports by format",
		}, []string{"format"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions",
			Help:      "Number of uploaded documents held in memory",
		}),
		sessionEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "session_evictions_total",
			Help:      "Count of sessions evicted from the cache",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
