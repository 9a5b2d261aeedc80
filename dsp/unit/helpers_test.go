package unit

import (
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// eventLog records trigger and note events in arrival order.
type eventLog struct {
	events []string
	notes  []float64
}

func (l *eventLog) ReceiveTrigger() { l.events = append(l.events, "trigger") }

func (l *eventLog) ReceiveNote(freqHz float64) {
	l.events = append(l.events, "note")
	l.notes = append(l.notes, freqHz)
}

func (l *eventLog) triggers() int {
	n := 0
	for _, e := range l.events {
		if e == "trigger" {
			n++
		}
	}

	return n
}

func newContext(opts ...core.ProcessorOption) Context {
	return Context{Graph: signalgraph.New(opts...)}
}

func params(unitType string, raw map[string]any) Params {
	return NewParams(unitType, unitType, raw)
}

func mustConstant(t *testing.T, ctx Context, v float64) *Constant {
	t.Helper()

	c, err := NewConstant(ctx, params(TypeConstant, map[string]any{"offset": v}))
	if err != nil {
		t.Fatalf("constant: %v", err)
	}

	return c
}

func connect(t *testing.T, src *signalgraph.Node, dst signalgraph.Target) {
	t.Helper()

	if err := src.Connect(dst); err != nil {
		t.Fatalf("connect %s -> %s: %v", src, dst, err)
	}
}

func render(ctx Context, n int) []float64 {
	out := make([]float64, n)
	ctx.Graph.Render(out)

	return out
}
