package unit

import (
	"errors"
	"sort"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
)

// ErrNoGraph is returned by constructors called without a graph.
var ErrNoGraph = errors.New("unit: context has no graph")

// base carries the single node and named params shared by every unit.
type base struct {
	node   *signalgraph.Node
	params map[string]*signalgraph.Param
}

func (b *base) init(ctx Context, p Params, proc signalgraph.Processor) error {
	if ctx.Graph == nil {
		return ErrNoGraph
	}

	b.node = ctx.Graph.NewNode(p.name(), proc)
	b.params = make(map[string]*signalgraph.Param)

	return nil
}

func (b *base) param(name string, value float64) *signalgraph.Param {
	p := b.node.NewParam(name, value)
	b.params[name] = p

	return p
}

// alias exposes an existing param under a second name.
func (b *base) alias(alias, name string) {
	b.params[alias] = b.params[name]
}

// Node returns the unit's node.
func (b *base) Node() *signalgraph.Node { return b.node }

// Output returns the unit's output port.
func (b *base) Output() *signalgraph.Node { return b.node }

// Param looks up a parameter by name.
func (b *base) Param(name string) (*signalgraph.Param, bool) {
	p, ok := b.params[name]
	return p, ok
}

// ParamNames returns the parameter names, aliases included, in sorted order.
func (b *base) ParamNames() []string {
	names := make([]string, 0, len(b.params))
	for n := range b.params {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Disconnect removes every outgoing connection.
func (b *base) Disconnect() { b.node.DisconnectAll() }

// Dispose releases the node.
func (b *base) Dispose() { b.node.Dispose() }
