// Package graph implements a versioned, history-tracking graph store.
//
// The append-only event log is the source of truth; every other structure
// (snapshots, adjacency indexes, checkpoints) is a derived projection that
// can be rebuilt by replaying the log.
package graph

// VertexID is an opaque vertex identifier, caller- or server-assigned.
type VertexID string

// Attrs holds optional string attributes attached to a vertex or edge.
// Values are treated as immutable once an event is accepted.
type Attrs map[string]string

// Clone returns an independent copy of the attribute map.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Vertex is a graph node with optional attributes.
type Vertex struct {
	ID    VertexID `json:"id"`
	Attrs Attrs    `json:"attrs,omitempty"`
}

// Edge connects two vertices. In a directed store the pair is ordered;
// in an undirected store (From, To) and (To, From) identify the same edge.
type Edge struct {
	From  VertexID `json:"from"`
	To    VertexID `json:"to"`
	Attrs Attrs    `json:"attrs,omitempty"`
}

// EdgeKey identifies an edge inside a snapshot. For undirected stores the
// endpoints are normalized before the key is built, so both orientations
// collide on the same entry.
type EdgeKey struct {
	From VertexID
	To   VertexID
}

// EventKind enumerates the atomic graph mutations.
type EventKind int

const (
	EventAddVertex EventKind = iota
	EventRemoveVertex
	EventAddEdge
	EventRemoveEdge
)

func (k EventKind) String() string {
	switch k {
	case EventAddVertex:
		return "AddVertex"
	case EventRemoveVertex:
		return "RemoveVertex"
	case EventAddEdge:
		return "AddEdge"
	case EventRemoveEdge:
		return "RemoveEdge"
	default:
		return "Unknown"
	}
}

// Event is an immutable record of one accepted graph mutation. Version is
// assigned by the log on append and never changes afterwards.
type Event struct {
	Version uint64    `json:"version"`
	Kind    EventKind `json:"kind"`

	// For AddVertex / RemoveVertex
	VertexID VertexID `json:"vertex_id,omitempty"`

	// For AddEdge / RemoveEdge
	From VertexID `json:"source,omitempty"`
	To   VertexID `json:"target,omitempty"`

	// For AddVertex / AddEdge
	Attrs Attrs `json:"attrs,omitempty"`
}
