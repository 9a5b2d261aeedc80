package unit

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Glide turns discrete note events into a continuous pitch signal in Hz
// that slews toward each new note (portamento).
type Glide struct {
	base
	sampleRate float64
	time       *signalgraph.Param

	current float64
	target  float64
	notes   int
}

// NewGlide builds a glide. Params: time (seconds to reach ~63% of a jump).
func NewGlide(ctx Context, p Params) (*Glide, error) {
	g := &Glide{}
	if err := g.init(ctx, p, g); err != nil {
		return nil, err
	}

	g.sampleRate = ctx.SampleRate()
	g.time = g.param("time", p.GetNum("time", 0.05))

	return g, nil
}

// ReceiveNote implements NoteReceiver. The first note jumps immediately.
func (g *Glide) ReceiveNote(freqHz float64) {
	g.notes++
	g.target = freqHz

	if g.current == 0 {
		g.current = freqHz
	}
}

// Target returns the most recent note frequency.
func (g *Glide) Target() float64 { return g.target }

// Notes returns the number of note events received.
func (g *Glide) Notes() int { return g.notes }

// Process implements signalgraph.Processor.
func (g *Glide) Process(_, out []float64) {
	for i := range out {
		a := 0.0
		if t := g.time.At(i); t > 0 {
			a = math.Exp(-1 / (t * g.sampleRate))
		}

		g.current = g.target + (g.current-g.target)*a
		out[i] = g.current
	}
}
