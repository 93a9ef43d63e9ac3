// Package metrics exposes prometheus instruments for task store activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskdash"

// Metrics holds the store instruments. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	MutationsTotal     *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	PersistErrorsTotal prometheus.Counter
	SweepsTotal        prometheus.Counter
	UnreadGauge        prometheus.Gauge
	TasksGauge         *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New creates the instruments and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Store mutations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_generated_total",
				Help:      "Notifications generated by type",
			},
			[]string{"type"},
		),
		PersistErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_errors_total",
				Help:      "Failed snapshot writes",
			},
		),
		SweepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "due_date_sweeps_total",
				Help:      "Completed due-date sweeps",
			},
		),
		UnreadGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "unread_notifications",
				Help:      "Current number of unread notifications",
			},
		),
		TasksGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks",
				Help:      "Current number of tasks by status",
			},
			[]string{"status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.MutationsTotal,
		m.NotificationsTotal,
		m.PersistErrorsTotal,
		m.SweepsTotal,
		m.UnreadGauge,
		m.TasksGauge,
	)
	return m
}

// Mutation records one store mutation
func (m *Metrics) Mutation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.MutationsTotal.WithLabelValues(op, outcome).Inc()
}

// Notification records a generated notification
func (m *Metrics) Notification(kind string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// PersistError records a failed snapshot write
func (m *Metrics) PersistError() {
	if m == nil {
		return
	}
	m.PersistErrorsTotal.Inc()
}

// Sweep records a completed due-date sweep
func (m *Metrics) Sweep() {
	if m == nil {
		return
	}
	m.SweepsTotal.Inc()
}

// SetUnread sets the unread notification gauge
func (m *Metrics) SetUnread(n int) {
	if m == nil {
		return
	}
	m.UnreadGauge.Set(float64(n))
}

// SetTaskCounts sets the per-status task gauge
func (m *Metrics) SetTaskCounts(counts map[string]int) {
	if m == nil {
		return
	}
	for status, n := range counts {
		m.TasksGauge.WithLabelValues(status).Set(float64(n))
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
