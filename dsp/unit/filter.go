package unit

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

const (
	ladderThermalVoltage = 5.0
	ladderDrive          = 1.0
	ladderStateLimit     = 32.0
	minCutoffHz          = 20.0
	maxResonance         = 4.0
)

// Filter is a four-stage nonlinear ladder low-pass with Huovilainen tuning
// and resonance compensation. Cutoff and resonance are evaluated per sample
// so both can be modulated at audio rate.
type Filter struct {
	base
	sampleRate float64
	nyquist    float64

	frequency *signalgraph.Param
	resonance *signalgraph.Param

	stage      [4]float64
	prevOutput float64
}

// NewFilter builds a ladder filter. Params: frequency (Hz), resonance [0, 4].
func NewFilter(ctx Context, p Params) (*Filter, error) {
	f := &Filter{}
	if err := f.init(ctx, p, f); err != nil {
		return nil, err
	}

	f.sampleRate = ctx.SampleRate()
	f.nyquist = ctx.Graph.Config().Nyquist()
	f.frequency = f.param("frequency", p.GetNum("frequency", p.GetNum("cutoff", 1000)))
	f.resonance = f.param("resonance", p.GetNum("resonance", 0.5))
	f.alias("cutoff", "frequency")

	return f, nil
}

// Input implements AudioInput.
func (f *Filter) Input() *signalgraph.Node { return f.node }

// Process implements signalgraph.Processor.
func (f *Filter) Process(in, out []float64) {
	freq := f.frequency.Values()
	res := f.resonance.Values()
	nyquistGuard := 0.9 * f.nyquist
	shape := 0.5 * ladderDrive / ladderThermalVoltage

	for i, x := range in {
		if !core.IsFinite(x) {
			x = 0
		}

		fc := core.Clamp(freq[i], minCutoffHz, nyquistGuard) / f.sampleRate

		fcr := 1.8730*fc*fc*fc + 0.4955*fc*fc - 0.6490*fc + 0.9988
		g := 2 * ladderThermalVoltage * (1 - math.Exp(-2*math.Pi*fcr*fc))

		comp := -3.9364*fc*fc + 1.8409*fc + 0.9968
		if comp < 0 {
			comp = 0
		}

		feedback := core.Clamp(res[i], 0, maxResonance) * comp

		s := &f.stage
		drive := x - feedback*0.5*(s[3]+f.prevOutput)

		t0 := math.Tanh(shape * drive)
		t1 := math.Tanh(shape * s[0])
		t2 := math.Tanh(shape * s[1])
		t3 := math.Tanh(shape * s[2])
		t4 := math.Tanh(shape * s[3])

		s[0] = clipState(s[0] + g*(t0-t1))
		t1 = math.Tanh(shape * s[0])
		s[1] = clipState(s[1] + g*(t1-t2))
		t2 = math.Tanh(shape * s[1])
		s[2] = clipState(s[2] + g*(t2-t3))
		t3 = math.Tanh(shape * s[2])
		s[3] = clipState(s[3] + g*(t3-t4))

		f.prevOutput = s[3]
		out[i] = s[3]
	}
}

func clipState(v float64) float64 {
	return core.FlushDenormals(core.Clamp(v, -ladderStateLimit, ladderStateLimit))
}
