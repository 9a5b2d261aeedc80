package routing

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/dsp/unit"
)

// Range is the declared domain of a parameter.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether both bounds are finite and Min < Max.
func (r Range) Valid() bool {
	return core.IsFinite(r.Min) && core.IsFinite(r.Max) && r.Min < r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// RangeTable maps parameter names to declared ranges. A parameter without
// an entry is driven by CV directly.
type RangeTable map[string]Range

func (t RangeTable) clone() RangeTable {
	if len(t) == 0 {
		return nil
	}

	out := make(RangeTable, len(t))
	for k, v := range t {
		out[k] = v
	}

	return out
}

// Scaler maps a normalized control signal linearly into a parameter range:
// from.Min lands on Min and from.Max on Max, so a bipolar 0 lands on the
// midpoint. Each CV edge with a declared range owns one scaler.
type Scaler struct {
	node   *signalgraph.Node
	from   unit.Domain
	to     Range
	scale  float64
	offset float64
}

// NewScaler adds a scaler node to g. It must be called while g is locked
// (inside Graph.Update) when g is rendering concurrently.
func NewScaler(g *signalgraph.Graph, from unit.Domain, to Range) (*Scaler, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, to)
	}

	if !(Range{Min: from.Min, Max: from.Max}).Valid() {
		return nil, fmt.Errorf("%w: source domain [%g, %g]", ErrInvalidRange, from.Min, from.Max)
	}

	s := &Scaler{from: from, to: to}
	s.scale = (to.Max - to.Min) / (from.Max - from.Min)
	s.offset = to.Min - from.Min*s.scale
	s.node = g.NewNode("scaler"+to.String(), s)

	return s, nil
}

// Map returns the scaled value of x.
func (s *Scaler) Map(x float64) float64 {
	return s.offset + s.scale*x
}

// Range returns the target range.
func (s *Scaler) Range() Range { return s.to }

// Domain returns the source domain.
func (s *Scaler) Domain() unit.Domain { return s.from }

// Input returns the port the control source connects to.
func (s *Scaler) Input() *signalgraph.Node { return s.node }

// Output returns the port that drives the parameter.
func (s *Scaler) Output() *signalgraph.Node { return s.node }

// Dispose removes the scaler node and its links.
func (s *Scaler) Dispose() { s.node.Dispose() }

// Process implements signalgraph.Processor.
func (s *Scaler) Process(in, out []float64) {
	for i, x := range in {
		out[i] = s.offset + s.scale*x
	}
}
