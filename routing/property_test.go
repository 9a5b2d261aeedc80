package routing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-modular/dsp/unit"
)

// scene is a small patch touching every signal type, plus one edge that
// never resolves and one that is always rejected.
type scene struct {
	f      *fixture
	seq    *emitter
	env    *receiver
	lfo    *source
	vcf    *sink
	out    *sink
	units  map[string]unit.Unit
	ranges map[string]RangeTable
}

var sceneIDs = []string{"seq", "env", "lfo", "vcf", DefaultOutputID}

func newScene(t testing.TB) *scene {
	t.Helper()

	f := newFixture(t)
	s := &scene{
		f:   f,
		seq: &emitter{},
		env: &receiver{},
		lfo: newSource(f.graph, "lfo", 0.5),
		vcf: newSink(f.graph, "vcf", "cutoff", "res"),
		out: newSink(f.graph, "out"),
	}

	s.units = map[string]unit.Unit{
		"seq": s.seq, "env": s.env, "lfo": s.lfo, "vcf": s.vcf, DefaultOutputID: s.out,
	}
	s.ranges = map[string]RangeTable{"vcf": {"cutoff": {Min: 100, Max: 300}}}

	f.add(t, edge("e1", "seq", "gate", "env", "trigger", SignalGate))
	f.add(t, edge("e2", "seq", "note", "env", "note", SignalNote))
	f.add(t, edge("e3", "lfo", "", "vcf", "cutoff", SignalCV))
	f.add(t, edge("e4", "lfo", "", "vcf", "res", SignalCV))
	f.add(t, edge("e5", "lfo", "", "vcf", "", SignalAudio))
	f.add(t, edge("e6", "vcf", "", DefaultOutputID, "", SignalAudio))
	f.add(t, edge("e7", "ghost", "", "env", "", SignalGate))
	f.add(t, edge("e8", "lfo", "", "env", "", SignalGate))

	return s
}

func (s *scene) register(t testing.TB, id string) {
	t.Helper()
	s.f.register(t, id, s.units[id], s.ranges[id])
}

// check verifies the live behavior of the fully registered scene.
func (s *scene) check() bool {
	s.seq.fire(220)

	if s.env.triggers != 1 || len(s.env.notes) != 1 {
		return false
	}

	out := s.f.render(16)

	return out[0] == 0.5 && s.vcf.value("cutoff") == 250 && s.vcf.value("res") == 0.5
}

func TestOrderIndependenceAllPermutations(t *testing.T) {
	t.Parallel()

	var want []string

	for _, order := range permutations(sceneIDs) {
		s := newScene(t)
		for _, id := range order {
			s.register(t, id)
		}

		got := wiring(s.f.reg)
		if want == nil {
			want = got
			require.Len(t, want, 6)
		}

		require.Equal(t, want, got, "order %v", order)
		require.True(t, s.check(), "order %v", order)
	}
}

func TestRoutingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	reference := func() []string {
		s := newScene(t)
		for _, id := range sceneIDs {
			s.register(t, id)
		}

		return wiring(s.f.reg)
	}()

	properties.Property("re-registrations in any order converge", prop.ForAll(
		func(steps []int) bool {
			s := newScene(t)
			for _, i := range steps {
				s.register(t, sceneIDs[i])
			}

			for _, id := range sceneIDs {
				s.register(t, id)
			}

			return assert.ObjectsAreEqual(reference, wiring(s.f.reg)) && s.check()
		},
		gen.SliceOf(gen.IntRange(0, len(sceneIDs)-1)),
	))

	properties.Property("gate subscription fires once per event", prop.ForAll(
		func(n int) bool {
			f := newFixture(t)
			seq, env := &emitter{}, &receiver{}
			e := f.add(t, edge("g", "seq", "", "env", "", SignalGate))

			for i := 0; i < n; i++ {
				f.register(t, "seq", seq, nil)
				f.register(t, "env", env, nil)
				f.reg.Connect(e)
				f.reg.Reconcile()
			}

			seq.fire(0)
			seq.fire(0)

			return env.triggers == 2 && seq.triggers.Len() == 1
		},
		gen.IntRange(1, 20),
	))

	properties.Property("scaled cv lands linearly in the declared range", prop.ForAll(
		func(lo, span, v float64) bool {
			f := newFixture(t)
			lfo := newSource(f.graph, "lfo", v)
			vcf := newSink(f.graph, "vcf", "cutoff")

			f.add(t, edge("cv", "lfo", "", "vcf", "cutoff", SignalCV))
			f.register(t, "vcf", vcf, RangeTable{"cutoff": {Min: lo, Max: lo + span}})
			f.register(t, "lfo", lfo, nil)

			f.render(4)

			want := lo + (v+1)/2*span
			eps := 1e-9 * (1 + math.Abs(lo) + span)

			return math.Abs(vcf.value("cutoff")-want) <= eps
		},
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(0.001, 1000),
		gen.Float64Range(-1, 1),
	))

	properties.Property("unscaled cv passes values through", prop.ForAll(
		func(v float64) bool {
			f := newFixture(t)
			lfo := newSource(f.graph, "lfo", v)
			vcf := newSink(f.graph, "vcf", "cutoff")

			f.add(t, edge("cv", "lfo", "", "vcf", "cutoff", SignalCV))
			f.register(t, "lfo", lfo, nil)
			f.register(t, "vcf", vcf, nil)

			f.render(4)

			return vcf.value("cutoff") == v
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("deferred edge wires exactly once", prop.ForAll(
		func(retries int) bool {
			f := newFixture(t)
			seq, env := &emitter{}, &receiver{}
			e := f.add(t, edge("g", "seq", "", "env", "", SignalGate))

			f.register(t, "seq", seq, nil)

			for i := 0; i < retries; i++ {
				if f.reg.Connect(e) != Deferred {
					return false
				}
			}

			if len(f.reg.Connections()) != 0 {
				return false
			}

			f.register(t, "env", env, nil)
			seq.fire(0)

			return len(f.reg.Connections()) == 1 && env.triggers == 1
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
