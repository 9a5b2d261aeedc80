package unit

import (
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

type envelopeStage int

const (
	stageIdle envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope is a linear attack/decay/sustain/release generator started by
// gate triggers. A trigger carries no note-off, so the sustain stage lasts
// for the hold time before releasing.
type Envelope struct {
	base
	sampleRate float64

	attack  *signalgraph.Param
	decay   *signalgraph.Param
	sustain *signalgraph.Param
	hold    *signalgraph.Param
	release *signalgraph.Param

	stage       envelopeStage
	level       float64
	held        int
	releaseStep float64
	triggers    int
}

// NewEnvelope builds an envelope. Params: attack, decay, hold, release
// (seconds), sustain [0, 1].
func NewEnvelope(ctx Context, p Params) (*Envelope, error) {
	e := &Envelope{}
	if err := e.init(ctx, p, e); err != nil {
		return nil, err
	}

	e.sampleRate = ctx.SampleRate()
	e.attack = e.param("attack", p.GetNum("attack", 0.01))
	e.decay = e.param("decay", p.GetNum("decay", 0.1))
	e.sustain = e.param("sustain", p.GetNum("sustain", 0.7))
	e.hold = e.param("hold", p.GetNum("hold", 0.1))
	e.release = e.param("release", p.GetNum("release", 0.3))

	return e, nil
}

// OutputDomain implements Ranged.
func (e *Envelope) OutputDomain() Domain { return Unipolar }

// ReceiveTrigger implements TriggerReceiver. A retrigger restarts the
// attack from the current level.
func (e *Envelope) ReceiveTrigger() {
	e.triggers++
	e.stage = stageAttack
	e.held = 0
}

// Triggers returns the number of triggers received.
func (e *Envelope) Triggers() int { return e.triggers }

// Level returns the current envelope level.
func (e *Envelope) Level() float64 { return e.level }

// Active reports whether the envelope is outside its idle stage.
func (e *Envelope) Active() bool { return e.stage != stageIdle }

// Process implements signalgraph.Processor.
func (e *Envelope) Process(_, out []float64) {
	for i := range out {
		e.step(i)
		out[i] = e.level
	}
}

func (e *Envelope) step(i int) {
	switch e.stage {
	case stageAttack:
		e.level += e.increment(1, e.attack.At(i))
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
		}
	case stageDecay:
		sustain := core.Clamp(e.sustain.At(i), 0, 1)

		e.level -= e.increment(1-sustain, e.decay.At(i))
		if e.level <= sustain {
			e.level = sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.level = core.Clamp(e.sustain.At(i), 0, 1)

		e.held++
		if float64(e.held) >= e.hold.At(i)*e.sampleRate {
			e.stage = stageRelease
			e.releaseStep = e.increment(e.level, e.release.At(i))
		}
	case stageRelease:
		e.level -= e.releaseStep
		if e.level <= 0 {
			e.level = 0
			e.stage = stageIdle
		}
	case stageIdle:
	}
}

// increment returns the per-sample change covering span in seconds.
// Non-positive durations complete in one sample.
func (e *Envelope) increment(span, seconds float64) float64 {
	samples := seconds * e.sampleRate
	if samples < 1 {
		return span
	}

	return span / samples
}
