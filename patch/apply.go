package patch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-modular/dsp/unit"
	"github.com/cwbudde/algo-modular/routing"
)

// ErrIDClash is returned when a document reuses a node or edge id that is
// already live in the target.
var ErrIDClash = errors.New("id already in use")

// Target is where a document is applied.
type Target struct {
	Registry *routing.Registry
	// Store receives the edges. Defaults to the registry's edge source when
	// that is an *routing.EdgeStore.
	Store *routing.EdgeStore
	// Catalog builds the units. Defaults to unit.DefaultCatalog.
	Catalog *unit.Catalog
}

// Instance is an applied document.
type Instance struct {
	ID     string
	Name   string
	Nodes  []string
	Edges  []string
	Report routing.Report

	registry *routing.Registry
	store    *routing.EdgeStore
}

// Apply validates doc, adds its edges to the store and registers one unit
// per node. Edges without an id get a random one. Ids already present in
// the target fail with ErrIDClash before anything is touched. On error
// everything already applied is rolled back.
func Apply(doc *Document, t Target) (*Instance, error) {
	if t.Registry == nil {
		return nil, errors.New("apply patch: no registry")
	}

	store := t.Store
	if store == nil {
		s, ok := t.Registry.Edges().(*routing.EdgeStore)
		if !ok {
			return nil, errors.New("apply patch: registry edge source is not an edge store")
		}

		store = s
	}

	cat := t.Catalog
	if cat == nil {
		cat = unit.DefaultCatalog()
	}

	if err := doc.Check(cat); err != nil {
		return nil, err
	}

	if err := checkClashes(doc, t.Registry, store); err != nil {
		return nil, err
	}

	inst := &Instance{
		ID:       uuid.NewString(),
		Name:     doc.Name,
		registry: t.Registry,
		store:    store,
	}

	for _, e := range doc.Edges {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}

		if err := store.Add(e); err != nil {
			inst.Remove()
			return nil, fmt.Errorf("apply patch: %w", err)
		}

		inst.Edges = append(inst.Edges, e.ID)
	}

	g := t.Registry.Graph()
	ctx := unit.Context{Graph: g}

	for _, n := range doc.Nodes {
		var (
			u   unit.Unit
			err error
		)

		g.Update(func() { u, err = cat.New(ctx, unit.NewParams(n.ID, n.Type, n.Params)) })

		if err == nil {
			err = t.Registry.Register(n.ID, u, n.Ranges)
		}

		if err != nil {
			if u != nil {
				g.Update(u.Dispose)
			}

			inst.Remove()

			return nil, fmt.Errorf("apply patch: %w", err)
		}

		inst.Nodes = append(inst.Nodes, n.ID)
	}

	inst.Report = t.Registry.Reconcile()

	return inst, nil
}

func checkClashes(doc *Document, reg *routing.Registry, store *routing.EdgeStore) error {
	var errs []error

	for _, n := range doc.Nodes {
		if _, ok := reg.Unit(n.ID); ok {
			errs = append(errs, fmt.Errorf("node %q: %w", n.ID, ErrIDClash))
		}
	}

	for _, e := range doc.Edges {
		if e.ID == "" {
			continue
		}

		if _, ok := store.Get(e.ID); ok {
			errs = append(errs, fmt.Errorf("edge %q: %w", e.ID, ErrIDClash))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("apply patch: %w", errors.Join(errs...))
	}

	return nil
}

// Remove deletes the instance's edges and units. It is safe to call twice.
func (i *Instance) Remove() {
	for _, id := range i.Edges {
		if e, ok := i.store.Remove(id); ok {
			i.registry.Disconnect(e)
		}
	}

	for _, id := range i.Nodes {
		i.registry.DeleteUnit(id)
	}

	i.Edges = nil
	i.Nodes = nil
}
