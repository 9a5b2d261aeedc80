// Package level measures the level of a rendered signal block by block.
package level

import "math"

// ClipThreshold is the absolute sample value above which a sample counts
// as clipped.
const ClipThreshold = 1.0

// Level holds the statistics of everything a Meter has seen.
type Level struct {
	Samples       int     `json:"samples"`
	DC            float64 `json:"dc"`
	RMS           float64 `json:"rms"`
	Peak          float64 `json:"peak"`
	PeakPos       int     `json:"peak_pos"`
	CrestFactor   float64 `json:"crest_factor"` // peak / RMS (linear)
	ZeroCrossings int     `json:"zero_crossings"`
	Clipped       int     `json:"clipped"`
	NonFinite     int     `json:"non_finite"`
}

// RMSDB returns the RMS level in dBFS. Silence is -Inf.
func (l Level) RMSDB() float64 { return ampTodB(l.RMS) }

// PeakDB returns the peak level in dBFS. Silence is -Inf.
func (l Level) PeakDB() float64 { return ampTodB(l.Peak) }

// Silent reports whether every sample seen was zero.
func (l Level) Silent() bool { return l.Peak == 0 }

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Meter accumulates level statistics across blocks. NaN and Inf samples are
// counted but excluded from every other statistic.
type Meter struct {
	n         int
	sum, c    float64 // Kahan-compensated sum for DC
	sumSq     float64
	peak      float64
	peakPos   int
	crossings int
	clipped   int
	nonFinite int
	last      float64
}

// NewMeter returns an empty Meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Update adds a block of samples.
func (m *Meter) Update(block []float64) {
	for _, x := range block {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			m.nonFinite++
			continue
		}

		y := x - m.c
		t := m.sum + y
		m.c = (t - m.sum) - y
		m.sum = t

		m.sumSq += x * x

		a := math.Abs(x)
		if a > m.peak {
			m.peak = a
			m.peakPos = m.n
		}

		if a > ClipThreshold {
			m.clipped++
		}

		if m.n > 0 && m.last*x < 0 {
			m.crossings++
		}

		m.last = x
		m.n++
	}
}

// Result computes the statistics of every finite sample seen so far.
func (m *Meter) Result() Level {
	l := Level{
		Samples:   m.n,
		NonFinite: m.nonFinite,
	}

	if m.n == 0 {
		return l
	}

	nf := float64(m.n)

	l.DC = m.sum / nf
	l.RMS = math.Sqrt(m.sumSq / nf)
	l.Peak = m.peak
	l.PeakPos = m.peakPos
	l.ZeroCrossings = m.crossings
	l.Clipped = m.clipped

	if l.RMS > 0 {
		l.CrestFactor = l.Peak / l.RMS
	}

	return l
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Measure returns the level of a single block.
func Measure(block []float64) Level {
	var m Meter

	m.Update(block)

	return m.Result()
}
