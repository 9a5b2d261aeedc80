package unit

import (
	"fmt"
	"math"
	"strings"
)

// Waveform defines oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

// ParseWaveform maps a name to a Waveform. An empty name selects sine.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sine":
		return WaveSine, nil
	case "triangle":
		return WaveTriangle, nil
	case "saw":
		return WaveSaw, nil
	case "square":
		return WaveSquare, nil
	default:
		return WaveSine, fmt.Errorf("unsupported waveform: %s", name)
	}
}

func (w Waveform) String() string {
	switch w {
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return "sine"
	}
}

// phasor is a phase accumulator in [-pi, pi).
type phasor struct {
	waveform Waveform
	phase    float64
}

// next returns the current sample and advances by freqHz.
func (p *phasor) next(freqHz, sampleRate float64) float64 {
	v := waveSample(p.waveform, p.phase)

	p.phase += 2 * math.Pi * freqHz / sampleRate
	for p.phase >= math.Pi {
		p.phase -= 2 * math.Pi
	}

	for p.phase < -math.Pi {
		p.phase += 2 * math.Pi
	}

	return v
}

func waveSample(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	case WaveSaw:
		return phase / math.Pi
	case WaveSquare:
		if phase >= 0 {
			return 1
		}
		return -1
	default:
		return math.Sin(phase)
	}
}
