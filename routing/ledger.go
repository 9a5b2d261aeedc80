package routing

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/dsp/unit"
)

// Mode is how a wired edge is realized.
type Mode int

const (
	// ModeNone is the mode of an edge that is not wired.
	ModeNone Mode = iota
	// ModeAudio is a direct output-to-input patch.
	ModeAudio
	// ModeParam is a direct output-to-parameter patch without scaling.
	ModeParam
	// ModeScaled routes the output through a Scaler into a parameter.
	ModeScaled
	// ModeTrigger is a gate subscription.
	ModeTrigger
	// ModeNoteEvent is a note-event subscription.
	ModeNoteEvent
)

func (m Mode) String() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeParam:
		return "param"
	case ModeScaled:
		return "scaled"
	case ModeTrigger:
		return "trigger"
	case ModeNoteEvent:
		return "note-event"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// continuous reports whether the mode is a signal-graph patch.
func (m Mode) continuous() bool {
	return m == ModeAudio || m == ModeParam || m == ModeScaled
}

// connection is the ledger record of one wired edge.
type connection struct {
	edge   Edge
	signal SignalType
	mode   Mode

	source unit.Unit
	target unit.Unit

	from   *signalgraph.Node
	to     signalgraph.Target
	domain unit.Domain
	rng    Range
	scaler *Scaler
}

// matches reports whether c and o describe the same wiring. A matching
// record can be re-applied in place.
func (c *connection) matches(o *connection) bool {
	return c.mode == o.mode &&
		c.source == o.source && c.target == o.target &&
		c.from == o.from && c.to == o.to &&
		c.domain == o.domain && c.rng == o.rng
}

// sameLink reports whether c and o produce the same underlying link, so
// tearing down one must leave the other's effect in place.
func (c *connection) sameLink(o *connection) bool {
	switch c.mode {
	case ModeAudio, ModeParam:
		return (o.mode == ModeAudio || o.mode == ModeParam) && c.from == o.from && c.to == o.to
	case ModeTrigger, ModeNoteEvent:
		return o.mode == c.mode && c.source == o.source && c.target == o.target
	default:
		return false
	}
}

// ConnectionInfo describes one live connection.
type ConnectionInfo struct {
	EdgeID string `json:"edge" yaml:"edge"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Signal string `json:"signal" yaml:"signal"`
	Mode   Mode   `json:"mode" yaml:"mode"`
	Range  *Range `json:"range,omitempty" yaml:"range,omitempty"`
}

func (c *connection) info() ConnectionInfo {
	ci := ConnectionInfo{
		EdgeID: c.edge.ID,
		Source: endpointString(c.edge.Source, c.edge.SourceEndpoint),
		Target: endpointString(c.edge.Target, c.edge.TargetEndpoint),
		Signal: c.signal.String(),
		Mode:   c.mode,
	}

	if c.mode == ModeScaled {
		rng := c.rng
		ci.Range = &rng
	}

	return ci
}

func (ci ConnectionInfo) String() string {
	s := fmt.Sprintf("%s -> %s [%s %s]", ci.Source, ci.Target, ci.Signal, ci.Mode)
	if ci.Range != nil {
		s += " " + ci.Range.String()
	}

	return s
}
