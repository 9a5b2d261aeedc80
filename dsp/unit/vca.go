package unit

import (
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-vecmath"
)

// VCA multiplies its input by the gain param.
type VCA struct {
	base
	gain *signalgraph.Param
}

// NewVCA builds an amplifier. Params: gain.
func NewVCA(ctx Context, p Params) (*VCA, error) {
	v := &VCA{}
	if err := v.init(ctx, p, v); err != nil {
		return nil, err
	}

	v.gain = v.param("gain", p.GetNum("gain", 1))

	return v, nil
}

// Input implements AudioInput.
func (v *VCA) Input() *signalgraph.Node { return v.node }

// Process implements signalgraph.Processor.
func (v *VCA) Process(in, out []float64) {
	vecmath.MulBlock(out, in, v.gain.Values())
}
