package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/dsp/unit"
)

// source is a continuous control or audio source emitting a settable value.
type source struct {
	node     *signalgraph.Node
	value    float64
	domain   unit.Domain
	disposed bool
}

func newSource(g *signalgraph.Graph, name string, value float64) *source {
	s := &source{value: value, domain: unit.Bipolar}
	s.node = g.NewNode(name, signalgraph.ProcessorFunc(func(_, out []float64) {
		core.Fill(out, s.value)
	}))

	return s
}

func (s *source) Output() *signalgraph.Node   { return s.node }
func (s *source) OutputDomain() unit.Domain { return s.domain }
func (s *source) Disconnect()               { s.node.DisconnectAll() }

func (s *source) Dispose() {
	s.disposed = true
	s.node.Dispose()
}

// sink records its summed input and exposes named params.
type sink struct {
	node     *signalgraph.Node
	params   map[string]*signalgraph.Param
	last     []float64
	disposed bool
}

func newSink(g *signalgraph.Graph, name string, params ...string) *sink {
	s := &sink{params: make(map[string]*signalgraph.Param)}
	s.node = g.NewNode(name, signalgraph.ProcessorFunc(func(in, out []float64) {
		s.last = append(s.last[:0], in...)
		copy(out, in)
	}))

	for _, p := range params {
		s.params[p] = s.node.NewParam(p, 0)
	}

	return s
}

func (s *sink) Input() *signalgraph.Node  { return s.node }
func (s *sink) Output() *signalgraph.Node { return s.node }
func (s *sink) Disconnect()               { s.node.DisconnectAll() }

func (s *sink) Dispose() {
	s.disposed = true
	s.node.Dispose()
}

func (s *sink) Param(name string) (*signalgraph.Param, bool) {
	p, ok := s.params[name]
	return p, ok
}

// value returns the first sample of the named param in the last block.
func (s *sink) value(name string) float64 {
	return s.params[name].At(0)
}

// emitter fires gate and note events and has no continuous output.
type emitter struct {
	triggers unit.FanOut[unit.TriggerReceiver]
	notes    unit.FanOut[unit.NoteReceiver]
}

func (e *emitter) SubscribeTrigger(r unit.TriggerReceiver) bool   { return e.triggers.Add(r) }
func (e *emitter) UnsubscribeTrigger(r unit.TriggerReceiver) bool { return e.triggers.Remove(r) }
func (e *emitter) SubscribeNote(r unit.NoteReceiver) bool         { return e.notes.Add(r) }
func (e *emitter) UnsubscribeNote(r unit.NoteReceiver) bool       { return e.notes.Remove(r) }
func (e *emitter) Disconnect()                                    {}
func (e *emitter) Dispose()                                       {}

func (e *emitter) fire(freqHz float64) {
	e.notes.Each(func(r unit.NoteReceiver) { r.ReceiveNote(freqHz) })
	e.triggers.Each(func(r unit.TriggerReceiver) { r.ReceiveTrigger() })
}

// receiver counts gate and note events.
type receiver struct {
	triggers int
	notes    []float64
}

func (r *receiver) ReceiveTrigger()            { r.triggers++ }
func (r *receiver) ReceiveNote(freqHz float64) { r.notes = append(r.notes, freqHz) }
func (r *receiver) Disconnect()                {}
func (r *receiver) Dispose()                   {}

// noteSink receives note events and also has a pitch param.
type noteSink struct {
	receiver
	*sink
}

func (n *noteSink) Disconnect() { n.sink.Disconnect() }
func (n *noteSink) Dispose()    { n.sink.Dispose() }

// bare declares no capabilities.
type bare struct{}

func (bare) Disconnect() {}
func (bare) Dispose()    {}

// faulty panics when its input port is requested.
type faulty struct{}

func (faulty) Input() *signalgraph.Node { panic("input port unavailable") }
func (faulty) Disconnect()              {}
func (faulty) Dispose()                 {}

type fixture struct {
	graph *signalgraph.Graph
	store *EdgeStore
	reg   *Registry
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()

	g := signalgraph.New(core.WithSampleRate(1000), core.WithBlockSize(16))
	store := NewEdgeStore()

	return &fixture{graph: g, store: store, reg: NewRegistry(g, store, opts...)}
}

func (f *fixture) add(t testing.TB, e Edge) Edge {
	t.Helper()
	require.NoError(t, f.store.Add(e))

	return e
}

func (f *fixture) register(t testing.TB, id string, u unit.Unit, ranges RangeTable) {
	t.Helper()
	require.NoError(t, f.reg.Register(id, u, ranges))
}

func (f *fixture) render(n int) []float64 {
	out := make([]float64, n)
	f.graph.Render(out)

	return out
}

func edge(id, src, srcProp, dst, dstProp string, sig SignalType) Edge {
	e := NewEdge(src, srcProp, dst, dstProp, sig)
	e.ID = id

	return e
}

func ctxOf(f *fixture) unit.Context {
	return unit.Context{Graph: f.graph}
}

// wiring renders the live connections as comparable strings.
func wiring(r *Registry) []string {
	conns := r.Connections()
	out := make([]string, len(conns))

	for i, c := range conns {
		out[i] = c.EdgeID + " " + c.String()
	}

	return out
}

// permutations returns every ordering of items.
func permutations(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string(nil), items...)}
	}

	var out [][]string

	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)

		for _, p := range permutations(rest) {
			out = append(out, append([]string{items[i]}, p...))
		}
	}

	return out
}
