package routing

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	f := newFixture(t, WithMetrics(m))

	osc := newSource(f.graph, "osc", 1)
	out := newSink(f.graph, "out")

	f.add(t, edge("a", "osc", "", "out", "", SignalAudio))
	f.register(t, "osc", osc, nil)
	f.register(t, "out", out, nil)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.ResolutionsTotal.WithLabelValues("audio", "deferred")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ResolutionsTotal.WithLabelValues("audio", "wired")))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.RegistrationsTotal))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.Units))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Connections))

	f.reg.DeleteUnit("out")

	assert.Equal(t, 1.0, promtest.ToFloat64(m.TeardownsTotal))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Units))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.Connections))

	f.reg.Connect(Edge{ID: "x", Source: "osc", Target: "osc"})
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ResolutionsTotal.WithLabelValues("none", "rejected")))

	n, err := promtest.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Positive(t, n)
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics

	m.RecordResolution(SignalCV, Wired)
	m.RecordTeardown()
	m.RecordRegistration()
	m.UpdateSizes(1, 2)
}

func TestMetricsWithoutRegisterer(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)
	m.RecordRegistration()

	assert.Equal(t, 1.0, promtest.ToFloat64(m.RegistrationsTotal))
}
