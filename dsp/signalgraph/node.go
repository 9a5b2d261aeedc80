package signalgraph

import "github.com/cwbudde/algo-modular/dsp/core"

// Target is anything a node output can be connected to: another node's
// input or one of its parameters.
type Target interface {
	// Owner returns the node that renders the target.
	Owner() *Node
	String() string

	hasSource(src *Node) bool
	addSource(src *Node)
	removeSource(src *Node) bool
}

// Node is a processing vertex with one summing input, zero or more params
// and one output block.
type Node struct {
	graph *Graph
	name  string
	proc  Processor

	sources []*Node
	params  []*Param
	targets []Target

	in  []float64
	out []float64

	disposed bool
}

// Name returns the node's diagnostic name.
func (n *Node) Name() string { return n.name }

// String implements Target.
func (n *Node) String() string { return n.name }

// Owner implements Target.
func (n *Node) Owner() *Node { return n }

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// Disposed reports whether Dispose has been called.
func (n *Node) Disposed() bool { return n.disposed }

// Output returns the most recently rendered output block.
func (n *Node) Output() []float64 { return n.out }

// Sources returns the number of nodes connected to the input.
func (n *Node) Sources() int { return len(n.sources) }

// Targets returns the number of outgoing connections.
func (n *Node) Targets() int { return len(n.targets) }

// NewParam adds a parameter with the given intrinsic value.
func (n *Node) NewParam(name string, value float64) *Param {
	p := &Param{node: n, name: name, value: value}
	n.params = append(n.params, p)

	return p
}

// Connect routes the node output into dst. Connecting an existing link
// again is a no-op.
func (n *Node) Connect(dst Target) error {
	if dst == nil {
		return ErrNilTarget
	}

	owner := dst.Owner()
	if n.disposed || owner.disposed {
		return ErrDisposed
	}

	if owner.graph != n.graph {
		return ErrForeignGraph
	}

	if dst == Target(n) {
		return ErrSelfConnection
	}

	if dst.hasSource(n) {
		return nil
	}

	dst.addSource(n)
	n.targets = append(n.targets, dst)
	n.graph.dirty = true

	return nil
}

// ConnectedTo reports whether the node output feeds dst.
func (n *Node) ConnectedTo(dst Target) bool {
	return dst != nil && dst.hasSource(n)
}

// Disconnect removes the link to dst and reports whether it existed.
func (n *Node) Disconnect(dst Target) bool {
	if dst == nil || !dst.removeSource(n) {
		return false
	}

	n.dropTarget(dst)
	n.graph.dirty = true

	return true
}

// DisconnectAll removes every outgoing link.
func (n *Node) DisconnectAll() {
	if len(n.targets) == 0 {
		return
	}

	for _, t := range n.targets {
		t.removeSource(n)
	}

	n.targets = nil
	n.graph.dirty = true
}

// Dispose removes every incoming and outgoing link and drops the node from
// its graph. The destination node cannot be disposed.
func (n *Node) Dispose() {
	if n.disposed || n == n.graph.dest {
		return
	}

	n.DisconnectAll()

	for _, src := range n.sources {
		src.dropTarget(n)
	}

	n.sources = nil

	for _, p := range n.params {
		for _, src := range p.sources {
			src.dropTarget(p)
		}

		p.sources = nil
	}

	n.disposed = true
	n.graph.remove(n)
}

func (n *Node) hasSource(src *Node) bool {
	for _, s := range n.sources {
		if s == src {
			return true
		}
	}

	return false
}

func (n *Node) addSource(src *Node) {
	n.sources = append(n.sources, src)
}

func (n *Node) removeSource(src *Node) bool {
	var ok bool
	n.sources, ok = removeNode(n.sources, src)

	return ok
}

func (n *Node) dropTarget(t Target) {
	for i, x := range n.targets {
		if x == t {
			n.targets = append(n.targets[:i], n.targets[i+1:]...)
			return
		}
	}
}

func (n *Node) render(frames int) {
	n.in = core.EnsureLen(n.in, frames)
	core.Zero(n.in)

	for _, src := range n.sources {
		core.Accumulate(n.in, src.out)
	}

	for _, p := range n.params {
		p.render(frames)
	}

	n.out = core.EnsureLen(n.out, frames)
	if n.proc == nil {
		copy(n.out, n.in)
		return
	}

	n.proc.Process(n.in, n.out)
}

func removeNode(list []*Node, n *Node) ([]*Node, bool) {
	for i, x := range list {
		if x == n {
			return append(list[:i], list[i+1:]...), true
		}
	}

	return list, false
}
