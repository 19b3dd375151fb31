package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the per-tool Prometheus collectors.
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Limited  prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slapstick",
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and outcome (ok or an error kind).",
		}, []string{"tool", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slapstick",
			Name:      "tool_duration_seconds",
			Help:      "MCP tool call latency.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, 1},
		}, []string{"tool"}),
		Limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slapstick",
			Name:      "rate_limited_total",
			Help:      "Tool calls rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.Calls, m.Duration, m.Limited)
	return m
}
