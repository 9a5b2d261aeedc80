package signalgraph

import "github.com/cwbudde/algo-modular/dsp/core"

// Param is a named control input of a node. With nothing connected every
// sample equals the intrinsic value; with sources connected the sample is
// the sum of the source outputs and the intrinsic value is not added.
type Param struct {
	node    *Node
	name    string
	value   float64
	sources []*Node
	buf     []float64
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// String implements Target.
func (p *Param) String() string { return p.node.name + "." + p.name }

// Owner implements Target.
func (p *Param) Owner() *Node { return p.node }

// Value returns the intrinsic value.
func (p *Param) Value() float64 { return p.value }

// SetValue sets the intrinsic value.
func (p *Param) SetValue(v float64) { p.value = v }

// Connected reports whether any source drives the parameter.
func (p *Param) Connected() bool { return len(p.sources) > 0 }

// Sources returns the number of connected sources.
func (p *Param) Sources() int { return len(p.sources) }

// Values returns the per-sample values of the block being rendered.
func (p *Param) Values() []float64 { return p.buf }

// At returns the value of sample i in the current block. Outside a render
// pass it falls back to the intrinsic value.
func (p *Param) At(i int) float64 {
	if i < len(p.buf) {
		return p.buf[i]
	}

	return p.value
}

func (p *Param) hasSource(src *Node) bool {
	for _, s := range p.sources {
		if s == src {
			return true
		}
	}

	return false
}

func (p *Param) addSource(src *Node) {
	p.sources = append(p.sources, src)
}

func (p *Param) removeSource(src *Node) bool {
	var ok bool
	p.sources, ok = removeNode(p.sources, src)

	return ok
}

func (p *Param) render(frames int) {
	p.buf = core.EnsureLen(p.buf, frames)
	if len(p.sources) == 0 {
		core.Fill(p.buf, p.value)
		return
	}

	core.Zero(p.buf)

	for _, src := range p.sources {
		core.Accumulate(p.buf, src.out)
	}
}
