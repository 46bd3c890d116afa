package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
	toolCalls   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurrence_resolutions_total",
				Help: "Resolutions by outcome: ok or the failing stage.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recurrence_resolve_duration_seconds",
			Help:    "Time spent resolving a recurrence.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurrence_tool_calls_total",
				Help: "Tool calls by tool name and result.",
			},
			[]string{"tool", "result"},
		),
	}
	m.registry.MustRegister(
		m.resolutions, m.duration, m.toolCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
