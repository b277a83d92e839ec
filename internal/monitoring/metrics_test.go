package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.IncSessions()
	m.IncSessions()
	m.DecSessions()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))

	m.ObserveInteraction(OutcomeAccepted)
	m.ObserveInteraction(OutcomeAccepted)
	m.ObserveInteraction(OutcomeDebounced)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Interactions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Interactions.WithLabelValues(OutcomeDebounced)))

	m.IncPlacements()
	m.IncFaults()
	m.IncResyncs()
	m.IncViews()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Placements))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlerFaults))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncSessions()
	m.DecSessions()
	m.IncViews()
	m.IncPlacements()
	m.IncFaults()
	m.IncResyncs()
	m.ObserveInteraction(OutcomeBusy)
}
