// Package metrics holds the Prometheus collectors of the service. Collectors
// are registered on a private registry exposed at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "labflow"

// Alert delivery outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	alerts             *prometheus.CounterVec
	sweepDuration      prometheus.Histogram
	overdueSteps       prometheus.Gauge
	escalationFailures prometheus.Counter
	sweepFailures      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts sent to the notification channel by kind and outcome.",
		}, []string{"kind", "outcome"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sla",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of SLA sweeps.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		overdueSteps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sla",
			Name:      "overdue_steps",
			Help:      "Overdue workflow steps found by the last sweep.",
		}),
		escalationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sla",
			Name:      "escalation_failures_total",
			Help:      "Overdue steps whose alert could not be raised.",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sla",
			Name:      "sweep_failures_total",
			Help:      "SLA sweeps that failed before any step was checked.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.alerts,
		m.sweepDuration,
		m.overdueSteps,
		m.escalationFailures,
		m.sweepFailures,
	)
	return m
}

// Registry is the gatherer served by the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAlert(kind, outcome string) {
	m.alerts.WithLabelValues(kind, outcome).Inc()
}

// ObserveSweep records one SLA sweep. overdue replaces the gauge value.
func (m *Metrics) ObserveSweep(elapsed time.Duration, overdue, failed int) {
	m.sweepDuration.Observe(elapsed.Seconds())
	m.overdueSteps.Set(float64(overdue))
	m.escalationFailures.Add(float64(failed))
}

// ObserveSweepFailure records a sweep that failed as a whole. The overdue gauge
// keeps the value of the last successful sweep.
func (m *Metrics) ObserveSweepFailure(elapsed time.Duration) {
	m.sweepDuration.Observe(elapsed.Seconds())
	m.sweepFailures.Inc()
}
