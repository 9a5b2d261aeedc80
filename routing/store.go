package routing

import (
	"fmt"
	"sync"
)

// EdgeSource is read access to the authoritative edge list. It is
// re-iterated on every resolution pass.
type EdgeSource interface {
	Edges() []Edge
}

// IncidentSource is an EdgeSource that can list the edges touching a node
// without a full scan.
type IncidentSource interface {
	EdgeSource
	Incident(nodeID string) []Edge
}

// EdgeStore is an ordered edge list indexed by id and by endpoint node id.
// It is safe for concurrent use.
type EdgeStore struct {
	mu     sync.RWMutex
	edges  []Edge
	byID   map[string]int
	byNode map[string][]int
}

// NewEdgeStore creates an empty store.
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		byID:   make(map[string]int),
		byNode: make(map[string][]int),
	}
}

// Add appends e, or replaces the edge with the same id in place. An edge
// duplicating the endpoints of another id is rejected.
func (s *EdgeStore) Add(e Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, other := range s.edges {
		if other.ID != e.ID && sameEndpoints(other, e) {
			return fmt.Errorf("%w: %s duplicates %s", ErrDuplicateEdge, e.ID, s.edges[i].ID)
		}
	}

	if i, ok := s.byID[e.ID]; ok {
		s.edges[i] = e
	} else {
		s.edges = append(s.edges, e)
	}

	s.reindex()

	return nil
}

// Remove deletes the edge with the given id.
func (s *EdgeStore) Remove(id string) (Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return Edge{}, false
	}

	e := s.edges[i]
	s.edges = append(s.edges[:i:i], s.edges[i+1:]...)
	s.reindex()

	return e, true
}

// Get returns the edge with the given id.
func (s *EdgeStore) Get(id string) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Edge{}, false
	}

	return s.edges[i], true
}

// Edges returns a copy of the edges in insertion order.
func (s *EdgeStore) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Edge, len(s.edges))
	copy(out, s.edges)

	return out
}

// Incident returns the edges whose source or target is nodeID, in
// insertion order.
func (s *EdgeStore) Incident(nodeID string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byNode[nodeID]
	out := make([]Edge, 0, len(idx))

	for _, i := range idx {
		out = append(out, s.edges[i])
	}

	return out
}

// Len returns the number of edges.
func (s *EdgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.edges)
}

func (s *EdgeStore) reindex() {
	clear(s.byID)
	clear(s.byNode)

	for i, e := range s.edges {
		s.byID[e.ID] = i
		s.byNode[e.Source] = append(s.byNode[e.Source], i)

		if e.Target != e.Source {
			s.byNode[e.Target] = append(s.byNode[e.Target], i)
		}
	}
}

func sameEndpoints(a, b Edge) bool {
	return a.Source == b.Source && a.Target == b.Target &&
		a.SourceEndpoint == b.SourceEndpoint && a.TargetEndpoint == b.TargetEndpoint
}

// incidentEdges lists the edges touching nodeID from any EdgeSource.
func incidentEdges(src EdgeSource, nodeID string) []Edge {
	if is, ok := src.(IncidentSource); ok {
		return is.Incident(nodeID)
	}

	var out []Edge

	for _, e := range src.Edges() {
		if e.Touches(nodeID) {
			out = append(out, e)
		}
	}

	return out
}
