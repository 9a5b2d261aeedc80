package unit

import (
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/delay"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

const (
	maxDelaySeconds = 2.0
	maxFeedback     = 0.95
)

// Delay is a feedback echo with a modulatable delay time.
type Delay struct {
	base
	line       *delay.Line
	sampleRate float64

	time     *signalgraph.Param
	feedback *signalgraph.Param
	mix      *signalgraph.Param
}

// NewDelay builds a delay. Params: time (seconds, up to 2), feedback, mix.
func NewDelay(ctx Context, p Params) (*Delay, error) {
	d := &Delay{}
	if err := d.init(ctx, p, d); err != nil {
		return nil, err
	}

	line, err := delay.ForDuration(maxDelaySeconds, ctx.SampleRate())
	if err != nil {
		d.Dispose()
		return nil, err
	}

	d.line = line
	d.sampleRate = ctx.SampleRate()
	d.time = d.param("time", p.GetNum("time", 0.25))
	d.feedback = d.param("feedback", p.GetNum("feedback", 0.3))
	d.mix = d.param("mix", p.GetNum("mix", 0.3))

	return d, nil
}

// Input implements AudioInput.
func (d *Delay) Input() *signalgraph.Node { return d.node }

// Process implements signalgraph.Processor.
func (d *Delay) Process(in, out []float64) {
	limit := float64(d.line.Len() - 3)

	for i, x := range in {
		samples := core.Clamp(d.time.At(i)*d.sampleRate, 1, limit)
		fb := core.Clamp(d.feedback.At(i), 0, maxFeedback)
		mix := core.Clamp(d.mix.At(i), 0, 1)

		wet := d.line.ReadFractional(samples)
		d.line.Write(core.FlushDenormals(x + wet*fb))

		out[i] = x*(1-mix) + wet*mix
	}
}
