package unit

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Oscillator is an audio-rate voltage-controlled oscillator. Its "note"
// param is the frequency param under a pitch-oriented name, so a
// continuous pitch source can drive it directly.
type Oscillator struct {
	base
	osc        phasor
	sampleRate float64

	frequency *signalgraph.Param
	detune    *signalgraph.Param
	gain      *signalgraph.Param
}

// NewOscillator builds an oscillator. Params: frequency (Hz), detune
// (cents), gain; setting waveform.
func NewOscillator(ctx Context, p Params) (*Oscillator, error) {
	w, err := ParseWaveform(p.GetStr("waveform", ""))
	if err != nil {
		return nil, err
	}

	o := &Oscillator{osc: phasor{waveform: w}}
	if err := o.init(ctx, p, o); err != nil {
		return nil, err
	}

	o.sampleRate = ctx.SampleRate()
	o.frequency = o.param("frequency", p.GetNum("frequency", 440))
	o.detune = o.param("detune", p.GetNum("detune", 0))
	o.gain = o.param("gain", p.GetNum("gain", 1))
	o.alias("note", "frequency")

	return o, nil
}

// Waveform returns the oscillator shape.
func (o *Oscillator) Waveform() Waveform { return o.osc.waveform }

// Process implements signalgraph.Processor.
func (o *Oscillator) Process(_, out []float64) {
	freq := o.frequency.Values()
	detune := o.detune.Values()
	gain := o.gain.Values()

	for i := range out {
		f := freq[i]
		if detune[i] != 0 {
			f *= math.Exp2(detune[i] / 1200)
		}

		out[i] = gain[i] * o.osc.next(f, o.sampleRate)
	}
}

// LFO is a low-frequency bipolar control source.
type LFO struct {
	base
	osc        phasor
	sampleRate float64

	rate *signalgraph.Param
}

// NewLFO builds an LFO. Params: rate (Hz); setting waveform.
func NewLFO(ctx Context, p Params) (*LFO, error) {
	w, err := ParseWaveform(p.GetStr("waveform", ""))
	if err != nil {
		return nil, err
	}

	l := &LFO{osc: phasor{waveform: w}}
	if err := l.init(ctx, p, l); err != nil {
		return nil, err
	}

	l.sampleRate = ctx.SampleRate()
	l.rate = l.param("rate", p.GetNum("rate", 2))

	return l, nil
}

// OutputDomain implements Ranged.
func (l *LFO) OutputDomain() Domain { return Bipolar }

// Process implements signalgraph.Processor.
func (l *LFO) Process(_, out []float64) {
	rate := l.rate.Values()
	for i := range out {
		out[i] = l.osc.next(rate[i], l.sampleRate)
	}
}
