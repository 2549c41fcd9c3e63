package graph

import (
	"sort"

	apperrors "histograph/errors"
)

// Snapshot is the materialized graph state at a single version: a vertex
// map, an edge set, and an adjacency index (vertex id -> incident edge
// keys). A published snapshot is immutable; the serialized append path
// clones it, applies one event, and publishes the clone. Readers therefore
// never need a lock beyond the initial pointer read.
type Snapshot struct {
	version   uint64
	directed  bool
	vertices  map[VertexID]Vertex
	edges     map[EdgeKey]Edge
	adjacency map[VertexID]map[EdgeKey]struct{}
}

func newSnapshot(directed bool) *Snapshot {
	return &Snapshot{
		directed:  directed,
		vertices:  make(map[VertexID]Vertex),
		edges:     make(map[EdgeKey]Edge),
		adjacency: make(map[VertexID]map[EdgeKey]struct{}),
	}
}

// Version returns the version this snapshot reflects.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Directed reports the store-level direction semantics.
func (s *Snapshot) Directed() bool {
	return s.directed
}

// edgeKey builds the snapshot-internal edge identifier. Undirected stores
// normalize the endpoint order so both orientations address the same edge.
func (s *Snapshot) edgeKey(from, to VertexID) EdgeKey {
	if !s.directed && to < from {
		from, to = to, from
	}
	return EdgeKey{From: from, To: to}
}

// HasVertex reports whether the snapshot contains the vertex.
//
// Complexity: O(1)
func (s *Snapshot) HasVertex(id VertexID) bool {
	_, ok := s.vertices[id]
	return ok
}

// Vertex returns the vertex with the given id, if present.
func (s *Snapshot) Vertex(id VertexID) (Vertex, bool) {
	v, ok := s.vertices[id]
	return v, ok
}

// Edge returns the edge between from and to, if present. For undirected
// stores the orientation of the arguments does not matter.
func (s *Snapshot) Edge(from, to VertexID) (Edge, bool) {
	e, ok := s.edges[s.edgeKey(from, to)]
	return e, ok
}

// Degree returns the number of edges incident to the vertex.
//
// Complexity: O(1)
func (s *Snapshot) Degree(id VertexID) int {
	return len(s.adjacency[id])
}

// NumVertices returns the size of the vertex set.
func (s *Snapshot) NumVertices() int {
	return len(s.vertices)
}

// NumEdges returns the size of the edge set.
func (s *Snapshot) NumEdges() int {
	return len(s.edges)
}

// Vertices returns the vertex set sorted by id for deterministic output.
//
// Complexity: O(V log V)
func (s *Snapshot) Vertices() []Vertex {
	out := make([]Vertex, 0, len(s.vertices))
	for _, v := range s.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns the edge set sorted by (from, to) for deterministic output.
//
// Complexity: O(E log E)
func (s *Snapshot) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// clone deep-copies the snapshot so the copy can be advanced without
// disturbing readers of the original.
//
// Complexity: O(V + E)
func (s *Snapshot) clone() *Snapshot {
	out := &Snapshot{
		version:   s.version,
		directed:  s.directed,
		vertices:  make(map[VertexID]Vertex, len(s.vertices)),
		edges:     make(map[EdgeKey]Edge, len(s.edges)),
		adjacency: make(map[VertexID]map[EdgeKey]struct{}, len(s.adjacency)),
	}
	for id, v := range s.vertices {
		out.vertices[id] = v
	}
	for k, e := range s.edges {
		out.edges[k] = e
	}
	for id, inc := range s.adjacency {
		cp := make(map[EdgeKey]struct{}, len(inc))
		for k := range inc {
			cp[k] = struct{}{}
		}
		out.adjacency[id] = cp
	}
	return out
}

// validate checks whether e can be applied on top of this snapshot without
// breaking referential integrity. The snapshot is not modified.
func (s *Snapshot) validate(e Event) error {
	switch e.Kind {
	case EventAddVertex:
		if e.VertexID == "" {
			return apperrors.WrapError(apperrors.ErrMalformedRequest, "empty vertex id")
		}
		if s.HasVertex(e.VertexID) {
			return apperrors.WrapErrorf(apperrors.ErrConflict, "vertex %q already exists", e.VertexID)
		}
	case EventRemoveVertex:
		if !s.HasVertex(e.VertexID) {
			return apperrors.WrapErrorf(apperrors.ErrNotFound, "vertex %q", e.VertexID)
		}
		if d := s.Degree(e.VertexID); d > 0 {
			return apperrors.WrapErrorf(apperrors.ErrIntegrityViolation, "vertex %q has %d incident edge(s)", e.VertexID, d)
		}
	case EventAddEdge:
		if !s.HasVertex(e.From) {
			return apperrors.WrapErrorf(apperrors.ErrIntegrityViolation, "source vertex %q does not exist", e.From)
		}
		if !s.HasVertex(e.To) {
			return apperrors.WrapErrorf(apperrors.ErrIntegrityViolation, "target vertex %q does not exist", e.To)
		}
		if _, ok := s.edges[s.edgeKey(e.From, e.To)]; ok {
			return apperrors.WrapErrorf(apperrors.ErrConflict, "edge %q -> %q already exists", e.From, e.To)
		}
	case EventRemoveEdge:
		if _, ok := s.edges[s.edgeKey(e.From, e.To)]; !ok {
			return apperrors.WrapErrorf(apperrors.ErrNotFound, "edge %q -> %q", e.From, e.To)
		}
	default:
		return apperrors.WrapErrorf(apperrors.ErrMalformedRequest, "unknown event kind %d", e.Kind)
	}
	return nil
}

// apply mutates the snapshot in place. Callers must only apply events to
// unpublished clones, and must have validated the event first; apply assumes
// the event was accepted into the log.
func (s *Snapshot) apply(e Event) {
	switch e.Kind {
	case EventAddVertex:
		s.vertices[e.VertexID] = Vertex{ID: e.VertexID, Attrs: e.Attrs.Clone()}
		s.adjacency[e.VertexID] = make(map[EdgeKey]struct{})
	case EventRemoveVertex:
		delete(s.vertices, e.VertexID)
		delete(s.adjacency, e.VertexID)
	case EventAddEdge:
		key := s.edgeKey(e.From, e.To)
		s.edges[key] = Edge{From: e.From, To: e.To, Attrs: e.Attrs.Clone()}
		s.adjacency[e.From][key] = struct{}{}
		s.adjacency[e.To][key] = struct{}{}
	case EventRemoveEdge:
		key := s.edgeKey(e.From, e.To)
		delete(s.edges, key)
		delete(s.adjacency[key.From], key)
		delete(s.adjacency[key.To], key)
	}
	s.version = e.Version
}
