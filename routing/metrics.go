package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the routing counters and gauges. A nil *Metrics records
// nothing.
type Metrics struct {
	ResolutionsTotal   *prometheus.CounterVec
	TeardownsTotal     prometheus.Counter
	RegistrationsTotal prometheus.Counter
	Units              prometheus.Gauge
	Connections        prometheus.Gauge
}

// NewMetrics creates the routing metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsynth_routing_resolutions_total",
				Help: "Total number of edge resolutions by signal type and outcome",
			},
			[]string{"signal", "outcome"},
		),
		TeardownsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "modsynth_routing_teardowns_total",
				Help: "Total number of live connections torn down",
			},
		),
		RegistrationsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "modsynth_routing_registrations_total",
				Help: "Total number of unit registrations, replacements included",
			},
		),
		Units: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "modsynth_routing_units",
				Help: "Number of registered units",
			},
		),
		Connections: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "modsynth_routing_connections",
				Help: "Number of live connections",
			},
		),
	}
}

// RecordResolution counts one edge resolution.
func (m *Metrics) RecordResolution(signal SignalType, outcome Outcome) {
	if m == nil {
		return
	}

	m.ResolutionsTotal.WithLabelValues(signal.String(), outcome.String()).Inc()
}

// RecordTeardown counts one torn down connection.
func (m *Metrics) RecordTeardown() {
	if m == nil {
		return
	}

	m.TeardownsTotal.Inc()
}

// RecordRegistration counts one unit registration.
func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}

	m.RegistrationsTotal.Inc()
}

// UpdateSizes sets the unit and connection gauges.
func (m *Metrics) UpdateSizes(units, connections int) {
	if m == nil {
		return
	}

	m.Units.Set(float64(units))
	m.Connections.Set(float64(connections))
}
