package unit

import (
	"math/rand"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Noise is a deterministic white-noise source in [-gain, gain].
type Noise struct {
	base
	rng  *rand.Rand
	gain *signalgraph.Param
}

// NewNoise builds a noise source. Params: gain; setting seed.
func NewNoise(ctx Context, p Params) (*Noise, error) {
	n := &Noise{rng: rand.New(rand.NewSource(int64(p.GetNum("seed", 1))))}
	if err := n.init(ctx, p, n); err != nil {
		return nil, err
	}

	n.gain = n.param("gain", p.GetNum("gain", 1))

	return n, nil
}

// Process implements signalgraph.Processor.
func (n *Noise) Process(_, out []float64) {
	gain := n.gain.Values()
	for i := range out {
		out[i] = (n.rng.Float64()*2 - 1) * gain[i]
	}
}
