package unit

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/dsp/window"
)

const defaultAnalyzerSize = 2048

// Analyzer passes audio through unchanged and keeps the most recent frame
// for magnitude spectrum analysis.
type Analyzer struct {
	base
	sampleRate float64
	size       int

	ring   []float64
	write  int
	filled int

	plan       *algofft.Plan[complex128]
	window     []float64
	windowGain float64
	frame      []float64
	fftIn      []complex128
	fftOut     []complex128
	re, im     []float64
}

// NewAnalyzer builds an analyzer. Settings: size (FFT size, a power of two
// in [256, 8192]) and window (hann, hamming, blackman or rectangular).
func NewAnalyzer(ctx Context, p Params) (*Analyzer, error) {
	size := int(p.GetNum("size", defaultAnalyzerSize))
	switch size {
	case 256, 512, 1024, 2048, 4096, 8192:
	default:
		return nil, fmt.Errorf("unsupported analyzer size: %d", size)
	}

	wt, err := window.Parse(p.GetStr("window", "hann"))
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analyzer fft plan: %w", err)
	}

	a := &Analyzer{
		size:   size,
		ring:   make([]float64, size),
		plan:   plan,
		window: window.Generate(wt, size, window.WithPeriodic()),
		frame:  make([]float64, size),
		fftIn:  make([]complex128, size),
		fftOut: make([]complex128, size),
		re:     make([]float64, size/2+1),
		im:     make([]float64, size/2+1),
	}

	a.windowGain = window.CoherentGain(a.window)

	if err := a.init(ctx, p, a); err != nil {
		return nil, err
	}

	a.sampleRate = ctx.SampleRate()

	return a, nil
}

// Input implements AudioInput.
func (a *Analyzer) Input() *signalgraph.Node { return a.node }

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// Ready reports whether a full frame has been captured.
func (a *Analyzer) Ready() bool {
	var ok bool

	a.node.Graph().Update(func() { ok = a.ready() })

	return ok
}

func (a *Analyzer) ready() bool { return a.filled >= a.size }

// Process implements signalgraph.Processor.
func (a *Analyzer) Process(in, out []float64) {
	copy(out, in)

	for _, x := range in {
		a.ring[a.write] = x

		a.write++
		if a.write >= a.size {
			a.write = 0
		}

		if a.filled < a.size {
			a.filled++
		}
	}
}

// Spectrum returns the normalized magnitude of bins 0..size/2 of the most
// recent frame, or nil before a full frame has been captured. It holds the
// render lock, so it must not be called from inside Graph.Update.
func (a *Analyzer) Spectrum() ([]float64, error) {
	var (
		mag []float64
		err error
	)

	a.node.Graph().Update(func() { mag, err = a.spectrum() })

	return mag, err
}

func (a *Analyzer) spectrum() ([]float64, error) {
	if !a.ready() {
		return nil, nil
	}

	read := a.write
	for i := range a.frame {
		a.frame[i] = a.ring[read]

		read++
		if read >= a.size {
			read = 0
		}
	}

	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, x := range a.frame {
		a.fftIn[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.fftOut, a.fftIn); err != nil {
		return nil, fmt.Errorf("analyzer fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.fftOut[k])
		a.im[k] = imag(a.fftOut[k])
	}

	mag := make([]float64, len(a.re))
	vecmath.Magnitude(mag, a.re, a.im)

	norm := float64(a.size) * math.Max(a.windowGain, 1e-12)
	last := len(mag) - 1

	for k := range mag {
		mag[k] /= norm
		if k > 0 && k < last {
			mag[k] *= 2
		}
	}

	return mag, nil
}

// PeakFrequency returns the centre frequency of the strongest non-DC bin.
func (a *Analyzer) PeakFrequency() (float64, error) {
	mag, err := a.Spectrum()
	if err != nil || mag == nil {
		return 0, err
	}

	best := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	return float64(best) * a.sampleRate / float64(a.size), nil
}
