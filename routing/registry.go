package routing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cwbudde/algo-modular/dsp/signalgraph"
	"github.com/cwbudde/algo-modular/dsp/unit"
)

const (
	// DefaultOutputID is the node id of the final output sink.
	DefaultOutputID = "output"

	// outputPort marks a note source that emits pitch as a continuous
	// signal rather than as events.
	outputPort = "output"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics enables prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithOutputID overrides the node id whose unit is patched into the graph
// destination.
func WithOutputID(id string) Option {
	return func(r *Registry) {
		if id != "" {
			r.outputID = id
		}
	}
}

// Registry maps node ids to live units and keeps the wiring of every edge
// in sync with them. All methods run under the graph lock, so a rendering
// goroutine never observes a half-applied resolution.
type Registry struct {
	graph    *signalgraph.Graph
	edges    EdgeSource
	logger   *slog.Logger
	metrics  *Metrics
	outputID string

	units  map[string]unit.Unit
	ranges map[string]RangeTable
	ledger map[string]*connection
	sink   *signalgraph.Node
}

// NewRegistry creates a registry wiring units on g according to edges. A
// nil edge source is replaced by an empty EdgeStore.
func NewRegistry(g *signalgraph.Graph, edges EdgeSource, opts ...Option) *Registry {
	if g == nil {
		g = signalgraph.New()
	}

	if edges == nil {
		edges = NewEdgeStore()
	}

	r := &Registry{
		graph:    g,
		edges:    edges,
		logger:   slog.New(slog.DiscardHandler),
		outputID: DefaultOutputID,
		units:    make(map[string]unit.Unit),
		ranges:   make(map[string]RangeTable),
		ledger:   make(map[string]*connection),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Graph returns the signal graph the registry wires.
func (r *Registry) Graph() *signalgraph.Graph { return r.graph }

// Edges returns the edge source.
func (r *Registry) Edges() EdgeSource { return r.edges }

// OutputID returns the node id of the output sink.
func (r *Registry) OutputID() string { return r.outputID }

// Register stores u under nodeID, replacing any previous unit and range
// table, and resolves every edge touching nodeID. Wiring created for the
// previous unit is torn down first. Registering the output id also patches
// the unit into the graph destination.
func (r *Registry) Register(nodeID string, u unit.Unit, ranges RangeTable) error {
	if nodeID == "" {
		return ErrEmptyNodeID
	}

	if u == nil {
		return ErrNilUnit
	}

	r.graph.Update(func() {
		previous, replaced := r.units[nodeID]

		r.dropIncident(nodeID)

		if nodeID == r.outputID {
			r.connectSink(nodeID, u)
		}

		r.units[nodeID] = u
		r.ranges[nodeID] = ranges.clone()

		for _, e := range incidentEdges(r.edges, nodeID) {
			r.resolve(e)
		}

		r.metrics.RecordRegistration()
		r.metrics.UpdateSizes(len(r.units), len(r.ledger))

		r.logger.Debug("unit registered",
			"node", nodeID,
			"capabilities", unit.CapabilitiesOf(u).String(),
			"replaced", replaced && previous != u)
	})

	return nil
}

// Unit returns the unit registered under nodeID.
func (r *Registry) Unit(nodeID string) (unit.Unit, bool) {
	var (
		u  unit.Unit
		ok bool
	)

	r.graph.Update(func() { u, ok = r.units[nodeID] })

	return u, ok
}

// Ranges returns a copy of the range table registered for nodeID.
func (r *Registry) Ranges(nodeID string) RangeTable {
	var t RangeTable

	r.graph.Update(func() { t = r.ranges[nodeID].clone() })

	return t
}

// NodeIDs returns the registered node ids in sorted order.
func (r *Registry) NodeIDs() []string {
	var ids []string

	r.graph.Update(func() { ids = r.sortedIDs() })

	return ids
}

// DeleteUnit tears down every connection touching nodeID, disconnects and
// disposes the unit, and forgets the id. It reports whether a unit was
// registered. Edges stay in the edge source and resolve again if the id is
// registered later.
func (r *Registry) DeleteUnit(nodeID string) bool {
	var ok bool

	r.graph.Update(func() { ok = r.deleteUnit(nodeID) })

	return ok
}

// Reset deletes every registered unit. The registry stays usable.
func (r *Registry) Reset() {
	r.graph.Update(func() {
		for _, id := range r.sortedIDs() {
			r.deleteUnit(id)
		}

		for id, c := range r.ledger {
			r.teardown(c)
			delete(r.ledger, id)
		}
	})
}

// Connect resolves a single edge, typically right after it was created
// interactively.
func (r *Registry) Connect(e Edge) Outcome {
	return r.Resolve(e).Outcome
}

// Resolve is Connect with the full resolution details.
func (r *Registry) Resolve(e Edge) Resolution {
	var res Resolution

	r.graph.Update(func() {
		res = r.resolve(e)
		r.metrics.UpdateSizes(len(r.units), len(r.ledger))
	})

	return res
}

// Disconnect tears down whatever e produced: the continuous patch, its
// scaler, or the event subscription. It reports whether e was wired.
func (r *Registry) Disconnect(e Edge) bool {
	var ok bool

	r.graph.Update(func() {
		var c *connection

		c, ok = r.ledger[e.ID]
		if !ok {
			return
		}

		delete(r.ledger, e.ID)
		r.teardown(c)
		r.metrics.UpdateSizes(len(r.units), len(r.ledger))
	})

	return ok
}

// Reconcile re-resolves every edge of the edge source and tears down
// wiring of edges that are no longer listed. Calling it any number of
// times has no effect beyond idempotent rewiring.
func (r *Registry) Reconcile() Report {
	var rep Report

	r.graph.Update(func() {
		edges := r.edges.Edges()

		listed := make(map[string]bool, len(edges))
		for _, e := range edges {
			listed[e.ID] = true
		}

		for id, c := range r.ledger {
			if !listed[id] {
				delete(r.ledger, id)
				r.teardown(c)
			}
		}

		for _, e := range edges {
			rep.add(r.resolve(e))
		}

		r.metrics.UpdateSizes(len(r.units), len(r.ledger))
	})

	return rep
}

// Connections lists the live connections ordered by edge id.
func (r *Registry) Connections() []ConnectionInfo {
	var out []ConnectionInfo

	r.graph.Update(func() {
		out = make([]ConnectionInfo, 0, len(r.ledger))
		for _, c := range r.ledger {
			out = append(out, c.info())
		}
	})

	sort.Slice(out, func(i, j int) bool { return out[i].EdgeID < out[j].EdgeID })

	return out
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (r *Registry) deleteUnit(nodeID string) bool {
	u, ok := r.units[nodeID]
	if !ok {
		return false
	}

	r.dropIncident(nodeID)

	if nodeID == r.outputID {
		r.disconnectSink()
	}

	if err := guard(func() error {
		u.Disconnect()
		u.Dispose()

		return nil
	}); err != nil {
		r.logger.Error("unit dispose failed", "node", nodeID, "err", err)
	}

	delete(r.units, nodeID)
	delete(r.ranges, nodeID)

	r.metrics.UpdateSizes(len(r.units), len(r.ledger))
	r.logger.Debug("unit deleted", "node", nodeID)

	return true
}

// dropIncident tears down the ledger records of edges touching nodeID.
func (r *Registry) dropIncident(nodeID string) {
	ids := make([]string, 0)

	for id, c := range r.ledger {
		if c.edge.Touches(nodeID) {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	for _, id := range ids {
		c := r.ledger[id]
		delete(r.ledger, id)
		r.teardown(c)
	}
}

func (r *Registry) connectSink(nodeID string, u unit.Unit) {
	r.disconnectSink()

	out, ok := u.(unit.AudioOutput)
	if !ok {
		r.logger.Warn("output unit has no audio output", "node", nodeID)
		return
	}

	err := guard(func() error {
		n := out.Output()
		if err := n.Connect(r.graph.Destination()); err != nil {
			return err
		}

		r.sink = n

		return nil
	})
	if err != nil {
		r.logger.Error("output sink wiring failed", "node", nodeID, "err", err)
	}
}

func (r *Registry) disconnectSink() {
	if r.sink == nil {
		return
	}

	r.sink.Disconnect(r.graph.Destination())
	r.sink = nil
}

// resolve wires one edge. It must run under the graph lock.
func (r *Registry) resolve(e Edge) Resolution {
	res := Resolution{Edge: e, Signal: Classify(e.TargetEndpoint)}

	// The ledger is keyed by edge id; an edge without one would replace
	// the wiring of any other edge that also lacks it.
	if err := e.Validate(); err != nil {
		res.Outcome = Rejected
		res.Err = err
		r.logResolution(res)
		r.metrics.RecordResolution(res.Signal, res.Outcome)

		return res
	}

	var c *connection

	err := guard(func() error {
		var planErr error

		c, res.Outcome, planErr = r.plan(e, res.Signal)

		return planErr
	})
	if err != nil {
		res.Outcome = Rejected
	}

	old, hadOld := r.ledger[e.ID]

	switch {
	case res.Outcome != Wired:
		if hadOld {
			delete(r.ledger, e.ID)
			r.teardown(old)
		}
	case hadOld && old.matches(c):
		c = old
		err = guard(func() error { return r.wire(c) })
	default:
		if hadOld {
			delete(r.ledger, e.ID)
			r.teardown(old)
		}

		err = guard(func() error { return r.wire(c) })
	}

	if res.Outcome == Wired {
		if err != nil {
			res.Outcome = Rejected

			if _, ok := r.ledger[e.ID]; ok {
				delete(r.ledger, e.ID)
				r.teardown(c)
			} else if c.scaler != nil {
				c.scaler.Dispose()
			}
		} else {
			r.ledger[e.ID] = c
			res.Mode = c.mode
		}
	}

	res.Err = err
	r.logResolution(res)
	r.metrics.RecordResolution(res.Signal, res.Outcome)

	return res
}

// plan decides how e is wired without touching the graph.
func (r *Registry) plan(e Edge, sig SignalType) (*connection, Outcome, error) {
	if sig == SignalNone {
		return nil, Rejected, fmt.Errorf("%w: type %q", ErrUnroutable, e.TargetEndpoint.Type)
	}

	if src := Classify(e.SourceEndpoint); src != sig {
		return nil, Rejected, fmt.Errorf("%w: %s -> %s", ErrTypeMismatch, e.SourceEndpoint.Type, e.TargetEndpoint.Type)
	}

	source, okSource := r.units[e.Source]
	target, okTarget := r.units[e.Target]

	if !okSource || !okTarget {
		return nil, Deferred, nil
	}

	c := &connection{edge: e, signal: sig, source: source, target: target}

	switch sig {
	case SignalGate:
		if _, ok := source.(unit.TriggerSubscriber); !ok {
			return nil, Rejected, fmt.Errorf("%w: %s emits no triggers", ErrCapability, e.Source)
		}

		if _, ok := target.(unit.TriggerReceiver); !ok {
			return nil, Rejected, fmt.Errorf("%w: %s receives no triggers", ErrCapability, e.Target)
		}

		c.mode = ModeTrigger
	case SignalNote:
		if e.SourceEndpoint.Property != outputPort {
			_, emits := source.(unit.NoteSubscriber)
			_, receives := target.(unit.NoteReceiver)

			if emits && receives {
				c.mode = ModeNoteEvent
				return c, Wired, nil
			}
		}

		if err := r.planParam(c, false); err != nil {
			return nil, Rejected, err
		}
	case SignalCV:
		if err := r.planParam(c, true); err != nil {
			return nil, Rejected, err
		}
	case SignalAudio:
		from, err := outputNode(source, e.Source)
		if err != nil {
			return nil, Rejected, err
		}

		to, err := inputNode(target, e.Target)
		if err != nil {
			return nil, Rejected, err
		}

		c.mode = ModeAudio
		c.from = from
		c.to = to
	}

	return c, Wired, nil
}

// planParam routes the source output into the named target parameter,
// through a scaler when scaled is set and the target declares a range.
func (r *Registry) planParam(c *connection, scaled bool) error {
	from, err := outputNode(c.source, c.edge.Source)
	if err != nil {
		return err
	}

	p, ok := c.target.(unit.Parameterized)
	if !ok {
		return fmt.Errorf("%w: %s has no parameters", ErrCapability, c.edge.Target)
	}

	name := c.edge.TargetEndpoint.Property
	if name == "" {
		return fmt.Errorf("%w: %s: no parameter named on edge", ErrMissingParameter, c.edge.Target)
	}

	param, ok := p.Param(name)
	if !ok || param == nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingParameter, c.edge.Target, name)
	}

	c.mode = ModeParam
	c.from = from
	c.to = param

	if !scaled {
		return nil
	}

	rng, ok := r.ranges[c.edge.Target][name]
	if !ok {
		return nil
	}

	if !rng.Valid() {
		return fmt.Errorf("%w: %s.%s %s", ErrInvalidRange, c.edge.Target, name, rng)
	}

	c.mode = ModeScaled
	c.rng = rng
	c.domain = unit.DomainOf(c.source)

	return nil
}

// wire applies c. Every step is idempotent, so a matching record can be
// re-applied.
func (r *Registry) wire(c *connection) error {
	switch c.mode {
	case ModeAudio, ModeParam:
		if err := c.from.Connect(c.to); err != nil {
			return fmt.Errorf("%w: %w", ErrWiring, err)
		}
	case ModeScaled:
		if c.scaler == nil {
			s, err := NewScaler(r.graph, c.domain, c.rng)
			if err != nil {
				return err
			}

			c.scaler = s
		}

		if err := c.from.Connect(c.scaler.Input()); err != nil {
			return fmt.Errorf("%w: %w", ErrWiring, err)
		}

		if err := c.scaler.Output().Connect(c.to); err != nil {
			return fmt.Errorf("%w: %w", ErrWiring, err)
		}
	case ModeTrigger:
		c.source.(unit.TriggerSubscriber).SubscribeTrigger(c.target.(unit.TriggerReceiver))
	case ModeNoteEvent:
		c.source.(unit.NoteSubscriber).SubscribeNote(c.target.(unit.NoteReceiver))
	default:
		return fmt.Errorf("%w: no wiring mode", ErrWiring)
	}

	return nil
}

// teardown undoes c. c must already be removed from the ledger. Links
// still produced by another ledger record are kept.
func (r *Registry) teardown(c *connection) {
	shared := false

	for _, o := range r.ledger {
		if o != c && c.sameLink(o) {
			shared = true
			break
		}
	}

	err := guard(func() error {
		switch c.mode {
		case ModeAudio, ModeParam:
			if !shared {
				c.from.Disconnect(c.to)
			}
		case ModeScaled:
			if c.scaler != nil {
				c.scaler.Dispose()
				c.scaler = nil
			}
		case ModeTrigger:
			if !shared {
				c.source.(unit.TriggerSubscriber).UnsubscribeTrigger(c.target.(unit.TriggerReceiver))
			}
		case ModeNoteEvent:
			if !shared {
				c.source.(unit.NoteSubscriber).UnsubscribeNote(c.target.(unit.NoteReceiver))
			}
		}

		return nil
	})
	if err != nil {
		r.logger.Error("connection teardown failed", edgeAttrs(c.edge, c.signal, err)...)
	}

	r.metrics.RecordTeardown()
}

func (r *Registry) logResolution(res Resolution) {
	attrs := append(edgeAttrs(res.Edge, res.Signal, res.Err), "outcome", res.Outcome.String())

	switch {
	case res.Outcome == Wired:
		r.logger.Debug("edge wired", append(attrs, "mode", res.Mode.String())...)
	case res.Outcome == Deferred:
		r.logger.Debug("edge deferred", attrs...)
	case errors.Is(res.Err, ErrWiring):
		r.logger.Error("edge wiring failed", attrs...)
	default:
		r.logger.Warn("edge rejected", attrs...)
	}
}

func edgeAttrs(e Edge, sig SignalType, err error) []any {
	attrs := []any{
		"edge", e.ID,
		"source", endpointString(e.Source, e.SourceEndpoint),
		"target", endpointString(e.Target, e.TargetEndpoint),
		"signal", sig.String(),
	}

	if err != nil {
		attrs = append(attrs, "err", err)
	}

	return attrs
}

func outputNode(u unit.Unit, nodeID string) (*signalgraph.Node, error) {
	if o, ok := u.(unit.AudioOutput); ok {
		if n := o.Output(); n != nil {
			return n, nil
		}
	}

	if n, ok := u.(unit.Noder); ok {
		if node := n.Node(); node != nil {
			return node, nil
		}
	}

	return nil, fmt.Errorf("%w: %s has no output", ErrCapability, nodeID)
}

func inputNode(u unit.Unit, nodeID string) (*signalgraph.Node, error) {
	if in, ok := u.(unit.AudioInput); ok {
		if n := in.Input(); n != nil {
			return n, nil
		}
	}

	if n, ok := u.(unit.Noder); ok {
		if node := n.Node(); node != nil {
			return node, nil
		}
	}

	return nil, fmt.Errorf("%w: %s has no input", ErrCapability, nodeID)
}

// guard runs fn and converts a panic into an ErrWiring error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrWiring, p)
		}
	}()

	return fn()
}
