// Package metrics holds the Prometheus collectors for ingestion and background work
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like
// A nil *Metrics is valid and records nothing
type Metrics struct {
	registry *prometheus.Registry

	submissions *prometheus.CounterVec   // outcome
	deliveries  *prometheus.CounterVec   // channel, status
	tasks       *prometheus.CounterVec   // task, status
	taskTime    *prometheus.HistogramVec // task
	inflight    prometheus.Gauge
}

// New registers every collector on a fresh registry
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapulse",
			Name:      "submissions_total",
			Help:      "Submissions received by outcome (stored, rejected_origin, invalid_key, too_large, empty, error)",
		}, []string{"outcome"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapulse",
			Name:      "deliveries_total",
			Help:      "Outbound webhook and email deliveries by status",
		}, []string{"channel", "status"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapulse",
			Name:      "tasks_total",
			Help:      "Background tasks finished by name and status (ok, error, panic, timeout)",
		}, []string{"task", "status"}),
		taskTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datapulse",
			Name:      "task_duration_seconds",
			Help:      "Background task wall time",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 10, 30, 120},
		}, []string{"task"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datapulse",
			Name:      "tasks_inflight",
			Help:      "Background tasks currently running or waiting for a slot",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.submissions, m.deliveries, m.tasks, m.taskTime, m.inflight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}

// Submission counts one ingest attempt
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// Delivery counts one outbound webhook or email attempt
func (m *Metrics) Delivery(channel, status string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(channel, status).Inc()
}

// TaskStarted bumps the inflight gauge
func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.inflight.Inc()
}

// TaskDone records the outcome and duration of a background task
func (m *Metrics) TaskDone(task, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Dec()
	m.tasks.WithLabelValues(task, status).Inc()
	m.taskTime.WithLabelValues(task).Observe(took.Seconds())
}

// TaskDropped counts a task refused while the runner drains
func (m *Metrics) TaskDropped(task string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(task, "dropped").Inc()
}
