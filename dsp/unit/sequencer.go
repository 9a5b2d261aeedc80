package unit

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

const (
	defaultTempoBPM = 120.0
	minTempoBPM     = 1.0
	defaultPattern  = "C4 E4 G4 C5"
)

// Step is one sequencer step. A rest emits nothing.
type Step struct {
	Note   string
	FreqHz float64
	Rest   bool
}

// ParseSteps parses a whitespace or comma separated pattern such as
// "C4 E4 - G4". "-" and "." are rests.
func ParseSteps(pattern string) ([]Step, error) {
	fields := strings.FieldsFunc(pattern, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty step pattern")
	}

	steps := make([]Step, 0, len(fields))
	for _, f := range fields {
		if f == "-" || f == "." {
			steps = append(steps, Step{Rest: true})
			continue
		}

		freq, err := core.NoteToFreq(f)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", len(steps), err)
		}

		steps = append(steps, Step{Note: f, FreqHz: freq})
	}

	return steps, nil
}

// Sequencer is a step sequencer. Each non-rest step sets the continuous
// pitch output (Hz), sends a note event and then a gate trigger to its
// subscribers. While running it advances one step per sixteenth note.
type Sequencer struct {
	base
	sampleRate float64
	tempo      *signalgraph.Param

	steps   []Step
	current int
	running bool

	samplesUntilNextStep float64
	pitch                float64

	triggers FanOut[TriggerReceiver]
	notes    FanOut[NoteReceiver]
}

// NewSequencer builds a sequencer. Params: tempo (BPM); settings steps
// (pattern) and autostart (default on).
func NewSequencer(ctx Context, p Params) (*Sequencer, error) {
	steps, err := ParseSteps(p.GetStr("steps", defaultPattern))
	if err != nil {
		return nil, err
	}

	s := &Sequencer{steps: steps}
	if err := s.init(ctx, p, s); err != nil {
		return nil, err
	}

	s.sampleRate = ctx.SampleRate()
	s.tempo = s.param("tempo", p.GetNum("tempo", defaultTempoBPM))

	if p.GetBool("autostart", true) {
		s.Start()
	}

	return s, nil
}

// SubscribeTrigger implements TriggerSubscriber.
func (s *Sequencer) SubscribeTrigger(r TriggerReceiver) bool { return s.triggers.Add(r) }

// UnsubscribeTrigger implements TriggerSubscriber.
func (s *Sequencer) UnsubscribeTrigger(r TriggerReceiver) bool { return s.triggers.Remove(r) }

// SubscribeNote implements NoteSubscriber.
func (s *Sequencer) SubscribeNote(r NoteReceiver) bool { return s.notes.Add(r) }

// UnsubscribeNote implements NoteSubscriber.
func (s *Sequencer) UnsubscribeNote(r NoteReceiver) bool { return s.notes.Remove(r) }

// TriggerSubscribers returns the number of gate subscribers.
func (s *Sequencer) TriggerSubscribers() int { return s.triggers.Len() }

// NoteSubscribers returns the number of note subscribers.
func (s *Sequencer) NoteSubscribers() int { return s.notes.Len() }

// HasTriggerSubscriber reports whether r receives gate events.
func (s *Sequencer) HasTriggerSubscriber(r TriggerReceiver) bool { return s.triggers.Contains(r) }

// HasNoteSubscriber reports whether r receives note events.
func (s *Sequencer) HasNoteSubscriber(r NoteReceiver) bool { return s.notes.Contains(r) }

// Steps returns a copy of the pattern.
func (s *Sequencer) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)

	return out
}

// SetSteps replaces the pattern. Empty patterns are ignored.
func (s *Sequencer) SetSteps(steps []Step) {
	if len(steps) == 0 {
		return
	}

	s.steps = append([]Step(nil), steps...)
	if s.current >= len(s.steps) {
		s.current = 0
	}
}

// Start restarts playback from the first step.
func (s *Sequencer) Start() {
	s.running = true
	s.current = 0
	s.samplesUntilNextStep = 0
}

// Stop halts step advancement. The pitch output holds its last value.
func (s *Sequencer) Stop() { s.running = false }

// Running reports whether the sequencer advances while rendering.
func (s *Sequencer) Running() bool { return s.running }

// CurrentStep returns the index of the next step to play.
func (s *Sequencer) CurrentStep() int { return s.current }

// Pitch returns the current pitch output in Hz.
func (s *Sequencer) Pitch() float64 { return s.pitch }

// FireStep plays step i (modulo the pattern length) and reports whether it
// was a note. The pitch output changes first, then note subscribers, then
// trigger subscribers are called.
func (s *Sequencer) FireStep(i int) bool {
	if len(s.steps) == 0 {
		return false
	}

	i %= len(s.steps)
	if i < 0 {
		i += len(s.steps)
	}

	step := s.steps[i]
	if step.Rest {
		return false
	}

	s.pitch = step.FreqHz
	s.notes.Each(func(r NoteReceiver) { r.ReceiveNote(step.FreqHz) })
	s.triggers.Each(func(r TriggerReceiver) { r.ReceiveTrigger() })

	return true
}

// Process implements signalgraph.Processor.
func (s *Sequencer) Process(_, out []float64) {
	for i := range out {
		if s.running {
			s.samplesUntilNextStep--
			for s.samplesUntilNextStep <= 0 {
				s.FireStep(s.current)
				s.current = (s.current + 1) % len(s.steps)
				s.samplesUntilNextStep += s.stepDurationSamples(s.tempo.At(i))
			}
		}

		out[i] = s.pitch
	}
}

func (s *Sequencer) stepDurationSamples(tempoBPM float64) float64 {
	if tempoBPM < minTempoBPM {
		tempoBPM = minTempoBPM
	}

	return s.sampleRate * 60.0 / tempoBPM / 4.0
}
