package unit

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Constant emits its offset param, like a knob or a DC voltage source.
type Constant struct {
	base
	domain Domain
	offset *signalgraph.Param
}

// NewConstant builds a constant source. Params: offset; setting domain
// ("bipolar" or "unipolar").
func NewConstant(ctx Context, p Params) (*Constant, error) {
	c := &Constant{domain: Bipolar}

	switch d := p.GetStr("domain", "bipolar"); d {
	case "bipolar":
	case "unipolar":
		c.domain = Unipolar
	default:
		return nil, fmt.Errorf("unsupported domain: %s", d)
	}

	if err := c.init(ctx, p, c); err != nil {
		return nil, err
	}

	c.offset = c.param("offset", p.GetNum("offset", 0))

	return c, nil
}

// SetValue sets the emitted value.
func (c *Constant) SetValue(v float64) { c.offset.SetValue(v) }

// OutputDomain implements Ranged.
func (c *Constant) OutputDomain() Domain { return c.domain }

// Process implements signalgraph.Processor.
func (c *Constant) Process(_, out []float64) {
	copy(out, c.offset.Values())
}
