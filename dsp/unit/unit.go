package unit

import (
	"strings"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// Unit is a disposable processing object.
type Unit interface {
	// Disconnect removes every continuous connection leaving the unit.
	Disconnect()
	// Dispose releases the unit's graph nodes. The unit is unusable afterwards.
	Dispose()
}

// Noder exposes the unit's primary node, the connection point used when a
// unit is addressed as a whole.
type Noder interface {
	Node() *signalgraph.Node
}

// AudioInput is implemented by units with a continuous input port.
type AudioInput interface {
	Input() *signalgraph.Node
}

// AudioOutput is implemented by units with a continuous output port.
type AudioOutput interface {
	Output() *signalgraph.Node
}

// Parameterized is implemented by units with named continuous parameters.
type Parameterized interface {
	Param(name string) (*signalgraph.Param, bool)
}

// TriggerReceiver reacts to gate events.
type TriggerReceiver interface {
	ReceiveTrigger()
}

// TriggerSubscriber emits gate events to its subscribers. Subscribing the
// same receiver twice has no effect.
type TriggerSubscriber interface {
	SubscribeTrigger(r TriggerReceiver) bool
	UnsubscribeTrigger(r TriggerReceiver) bool
}

// NoteReceiver reacts to discrete pitch events carrying a frequency in Hz.
type NoteReceiver interface {
	ReceiveNote(freqHz float64)
}

// NoteSubscriber emits pitch events to its subscribers.
type NoteSubscriber interface {
	SubscribeNote(r NoteReceiver) bool
	UnsubscribeNote(r NoteReceiver) bool
}

// Ranged is implemented by units whose output is a normalized control
// signal in a known domain.
type Ranged interface {
	OutputDomain() Domain
}

// Domain is the span of a normalized control signal.
type Domain struct {
	Min float64
	Max float64
}

var (
	// Bipolar is the conventional domain of oscillating control sources.
	Bipolar = Domain{Min: -1, Max: 1}
	// Unipolar is the conventional domain of envelopes and gates.
	Unipolar = Domain{Min: 0, Max: 1}
)

// DomainOf returns the output domain a unit declares, or Bipolar.
func DomainOf(u Unit) Domain {
	if r, ok := u.(Ranged); ok {
		d := r.OutputDomain()
		if d.Max > d.Min {
			return d
		}
	}

	return Bipolar
}

// Capability is a set of routing capabilities.
type Capability uint16

const (
	CapAudioInput Capability = 1 << iota
	CapAudioOutput
	CapNode
	CapParameters
	CapTriggerReceiver
	CapTriggerSubscriber
	CapNoteReceiver
	CapNoteSubscriber
	CapRanged
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapAudioInput, "audio-in"},
	{CapAudioOutput, "audio-out"},
	{CapNode, "node"},
	{CapParameters, "params"},
	{CapTriggerReceiver, "trigger-in"},
	{CapTriggerSubscriber, "trigger-out"},
	{CapNoteReceiver, "note-in"},
	{CapNoteSubscriber, "note-out"},
	{CapRanged, "ranged"},
}

// CapabilitiesOf returns the capabilities u declares.
func CapabilitiesOf(u Unit) Capability {
	var c Capability

	if _, ok := u.(AudioInput); ok {
		c |= CapAudioInput
	}

	if _, ok := u.(AudioOutput); ok {
		c |= CapAudioOutput
	}

	if _, ok := u.(Noder); ok {
		c |= CapNode
	}

	if _, ok := u.(Parameterized); ok {
		c |= CapParameters
	}

	if _, ok := u.(TriggerReceiver); ok {
		c |= CapTriggerReceiver
	}

	if _, ok := u.(TriggerSubscriber); ok {
		c |= CapTriggerSubscriber
	}

	if _, ok := u.(NoteReceiver); ok {
		c |= CapNoteReceiver
	}

	if _, ok := u.(NoteSubscriber); ok {
		c |= CapNoteSubscriber
	}

	if _, ok := u.(Ranged); ok {
		c |= CapRanged
	}

	return c
}

// Has reports whether every capability in flags is present.
func (c Capability) Has(flags Capability) bool {
	return c&flags == flags
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}

	var names []string

	for _, cn := range capabilityNames {
		if c.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}

	return strings.Join(names, "|")
}
