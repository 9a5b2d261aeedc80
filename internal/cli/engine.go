package cli

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/patch"
	"github.com/cwbudde/algo-modular/routing"
)

// engine is one patch applied to a fresh graph.
type engine struct {
	doc      *patch.Document
	graph    *signalgraph.Graph
	registry *routing.Registry
	metrics  *prometheus.Registry
	instance *patch.Instance
}

// loadPatch reads the patch at path. The returned error is an *ExitError
// carrying the JSON error code.
func loadPatch(f *OutputFormatter, path string) (*patch.Document, error) {
	doc, err := patch.Load(path)
	if err != nil {
		code := ErrCodeLoad
		if errors.Is(err, patch.ErrInvalidDocument) {
			code = ErrCodeInvalid
		}

		return nil, f.Fail(ExitCommandError, code, err)
	}

	f.VerboseLog("loaded %s: %d nodes, %d edges", path, len(doc.Nodes), len(doc.Edges))

	return doc, nil
}

// openEngine applies doc to a fresh graph.
func openEngine(f *OutputFormatter, doc *patch.Document, logger *slog.Logger, opts ...core.ProcessorOption) (*engine, error) {
	var err error

	e := &engine{
		doc:     doc,
		graph:   signalgraph.New(opts...),
		metrics: prometheus.NewRegistry(),
	}

	e.registry = routing.NewRegistry(e.graph, routing.NewEdgeStore(),
		routing.WithLogger(logger),
		routing.WithMetrics(routing.NewMetrics(e.metrics)),
	)

	e.instance, err = patch.Apply(doc, patch.Target{Registry: e.registry})
	if err != nil {
		code := ErrCodeApply
		if errors.Is(err, patch.ErrInvalidDocument) {
			code = ErrCodeInvalid
		}

		return nil, f.Fail(ExitFailure, code, err)
	}

	rep := e.instance.Report
	f.VerboseLog("resolved edges: %d wired, %d deferred, %d rejected", rep.Wired, rep.Deferred, rep.Rejected)

	return e, nil
}

// resolutions counts the metric samples of every resolution outcome. It
// reads the engine's own prometheus registry.
func (e *engine) resolutions() map[string]float64 {
	out := map[string]float64{}

	families, err := e.metrics.Gather()
	if err != nil {
		return out
	}

	for _, mf := range families {
		if mf.GetName() != "modsynth_routing_resolutions_total" {
			continue
		}

		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" {
					out[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}

	return out
}

func (e *engine) close() {
	e.instance.Remove()
}
