package routing

import "strings"

// SignalType is the kind of signal an edge carries.
type SignalType int

const (
	// SignalNone marks a missing or unknown type tag.
	SignalNone SignalType = iota
	// SignalAudio is a continuous audio-rate signal into a unit input.
	SignalAudio
	// SignalCV is a continuous control signal into a named parameter.
	SignalCV
	// SignalGate carries discrete trigger events.
	SignalGate
	// SignalNote carries note events with a frequency.
	SignalNote
)

// ParseSignalType maps a type tag to a SignalType. Unknown tags yield
// SignalNone.
func ParseSignalType(tag string) SignalType {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "audio":
		return SignalAudio
	case "cv":
		return SignalCV
	case "gate":
		return SignalGate
	case "note":
		return SignalNote
	default:
		return SignalNone
	}
}

// Classify returns the signal type declared by an endpoint. It never infers
// a type from the property name.
func Classify(ep Endpoint) SignalType {
	return ParseSignalType(ep.Type)
}

func (s SignalType) String() string {
	switch s {
	case SignalAudio:
		return "audio"
	case SignalCV:
		return "cv"
	case SignalGate:
		return "gate"
	case SignalNote:
		return "note"
	default:
		return "none"
	}
}
