package unit

import "github.com/cwbudde/algo-modular/dsp/signalgraph"

// Context provides what a unit needs to build its nodes.
type Context struct {
	Graph *signalgraph.Graph
}

// SampleRate returns the graph sample rate.
func (c Context) SampleRate() float64 {
	return c.Graph.SampleRate()
}
