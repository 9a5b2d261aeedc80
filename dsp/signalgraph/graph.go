package signalgraph

import (
	"errors"
	"sync"

	"github.com/cwbudde/algo-modular/dsp/core"
)

var (
	// ErrDisposed is returned when connecting to or from a disposed node.
	ErrDisposed = errors.New("signalgraph: node disposed")
	// ErrForeignGraph is returned when two nodes belong to different graphs.
	ErrForeignGraph = errors.New("signalgraph: nodes belong to different graphs")
	// ErrSelfConnection is returned when a node output is fed into its own input.
	ErrSelfConnection = errors.New("signalgraph: node connected to its own input")
	// ErrNilTarget is returned when connecting to a nil target.
	ErrNilTarget = errors.New("signalgraph: nil target")
)

// Processor renders one block. in holds the sum of every source connected
// to the node input; out has the same length and must be fully written.
type Processor interface {
	Process(in, out []float64)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(in, out []float64)

// Process calls f(in, out).
func (f ProcessorFunc) Process(in, out []float64) { f(in, out) }

// Graph owns a set of nodes and the final destination node.
type Graph struct {
	mu sync.Mutex

	cfg   core.ProcessorConfig
	nodes []*Node
	order []*Node
	dirty bool

	dest   *Node
	frames uint64
}

// New creates an empty graph with a destination node.
func New(opts ...core.ProcessorOption) *Graph {
	g := &Graph{cfg: core.ApplyProcessorOptions(opts...)}
	g.dest = g.NewNode("destination", nil)

	return g
}

// Config returns the processing configuration.
func (g *Graph) Config() core.ProcessorConfig { return g.cfg }

// SampleRate returns the sample rate in Hz.
func (g *Graph) SampleRate() float64 { return g.cfg.SampleRate }

// Destination returns the node whose output Render delivers.
func (g *Graph) Destination() *Node { return g.dest }

// Len returns the number of live nodes, including the destination.
func (g *Graph) Len() int { return len(g.nodes) }

// Frames returns the number of frames rendered so far.
func (g *Graph) Frames() uint64 { return g.frames }

// Update runs fn while holding the render lock.
func (g *Graph) Update(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fn()
}

// NewNode adds a node to the graph. A nil processor passes the summed input
// through unchanged.
func (g *Graph) NewNode(name string, proc Processor) *Node {
	n := &Node{graph: g, name: name, proc: proc}
	g.nodes = append(g.nodes, n)
	g.dirty = true

	return n
}

// Render fills dst with the destination output, processing the graph in
// chunks of at most the configured block size.
func (g *Graph) Render(dst []float64) {
	if len(dst) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dirty || g.order == nil {
		g.order = g.sortNodes()
		g.dirty = false
	}

	block := g.cfg.BlockSize
	for off := 0; off < len(dst); off += block {
		end := off + block
		if end > len(dst) {
			end = len(dst)
		}

		frames := end - off
		for _, n := range g.order {
			n.render(frames)
		}

		copy(dst[off:end], g.dest.out)
		g.frames += uint64(frames)
	}
}

func (g *Graph) remove(n *Node) {
	for i, m := range g.nodes {
		if m == n {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}

	g.dirty = true
}
