// Package monitoring provides Prometheus metrics for the session engine.
//
// Metrics cover session population, interaction outcomes, placements, and
// handler faults. Constructors accept an explicit prometheus.Registerer so
// tests can use private registries.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interaction outcome labels.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDebounced = "debounced"
	OutcomeBusy      = "busy"
	OutcomeSuspended = "suspended"
	OutcomeStale     = "stale"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	SessionsActive prometheus.Gauge
	ViewsOpened    prometheus.Counter
	Interactions   *prometheus.CounterVec
	Placements     prometheus.Counter
	HandlerFaults  prometheus.Counter
	Resyncs        prometheus.Counter
}

// NewMetrics creates metrics registered against reg. A nil reg falls back to
// the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridmenu_sessions_active",
			Help: "Number of live sessions",
		}),
		ViewsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridmenu_views_opened_total",
			Help: "Total views opened across all sessions",
		}),
		Interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridmenu_interactions_total",
			Help: "Interactions routed, by outcome",
		}, []string{"outcome"}),
		Placements: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridmenu_placements_total",
			Help: "Accepted placements of foreign values into managed slots",
		}),
		HandlerFaults: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridmenu_handler_faults_total",
			Help: "Capability callbacks that panicked or returned an error",
		}),
		Resyncs: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridmenu_resyncs_total",
			Help: "Forced client resyncs scheduled after manual mutations",
		}),
	}
}

// ObserveInteraction records one routed interaction with its outcome label.
func (m *Metrics) ObserveInteraction(outcome string) {
	if m == nil {
		return
	}
	m.Interactions.WithLabelValues(outcome).Inc()
}

// Nil-tolerant helpers so the engine can run unmetered.

// IncSessions increments the live session gauge.
func (m *Metrics) IncSessions() {
	if m != nil {
		m.SessionsActive.Inc()
	}
}

// DecSessions decrements the live session gauge.
func (m *Metrics) DecSessions() {
	if m != nil {
		m.SessionsActive.Dec()
	}
}

// IncViews counts one opened view.
func (m *Metrics) IncViews() {
	if m != nil {
		m.ViewsOpened.Inc()
	}
}

// IncPlacements counts one accepted placement.
func (m *Metrics) IncPlacements() {
	if m != nil {
		m.Placements.Inc()
	}
}

// IncFaults counts one handler fault.
func (m *Metrics) IncFaults() {
	if m != nil {
		m.HandlerFaults.Inc()
	}
}

// IncResyncs counts one forced resync.
func (m *Metrics) IncResyncs() {
	if m != nil {
		m.Resyncs.Inc()
	}
}
