// Package metrics exposes Prometheus collectors for assessment activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "teaminsight"

// Metrics groups the collectors the HTTP layer reports into.
type Metrics struct {
	completions     *prometheus.CounterVec
	saveFailures    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeSessions  prometheus.GaugeFunc
}

// MustNew registers all collectors on reg and panics on duplicate
// registration. sessions reports the in-progress session count.
func MustNew(reg prometheus.Registerer, sessions func() int) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if sessions == nil {
		sessions = func() int { return 0 }
	}
	m := &Metrics{
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assessment",
				Name:      "completions_total",
				Help:      "Completed assessments by persistence mode.",
			},
			[]string{"mode"},
		),
		saveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assessment",
				Name:      "save_failures_total",
				Help:      "Failed result saves by error kind.",
			},
			[]string{"kind"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		activeSessions: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "assessment",
				Name:      "active_sessions",
				Help:      "In-progress assessment sessions held in memory.",
			},
			func() float64 { return float64(sessions()) },
		),
	}
	reg.MustRegister(m.completions, m.saveFailures, m.requestDuration, m.activeSessions)
	return m
}

// The recorders are no-ops on a nil *Metrics.

func (m *Metrics) RecordCompletion(mode string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(mode).Inc()
}

func (m *Metrics) RecordSaveFailure(kind string) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
