package unit

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Output is the final sink. The router connects its output to the graph
// destination when it is registered under the output node id.
type Output struct {
	base
	gain *signalgraph.Param
	peak float64
}

// NewOutput builds the sink. Params: gain (linear), or gainDb which takes
// precedence.
func NewOutput(ctx Context, p Params) (*Output, error) {
	o := &Output{}
	if err := o.init(ctx, p, o); err != nil {
		return nil, err
	}

	gain := p.GetNum("gain", p.GetNum("level", 0.8))
	if db := p.GetNum("gainDb", math.NaN()); !math.IsNaN(db) {
		gain = core.DBToLinear(db)
	}

	o.gain = o.param("gain", gain)
	o.alias("level", "gain")

	return o, nil
}

// Input implements AudioInput.
func (o *Output) Input() *signalgraph.Node { return o.node }

// Peak returns the absolute peak of the last rendered block.
func (o *Output) Peak() float64 { return o.peak }

// Process implements signalgraph.Processor.
func (o *Output) Process(in, out []float64) {
	gain := o.gain.Values()
	peak := 0.0

	for i, x := range in {
		out[i] = x * gain[i]
		peak = math.Max(peak, math.Abs(out[i]))
	}

	o.peak = peak
}
