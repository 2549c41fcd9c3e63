package types

// VertexPayload is the wire form of a vertex. On AddVertex requests the ID
// may be empty, in which case the server generates one.
type VertexPayload struct {
	ID    string            `json:"id"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// EdgePayload is the wire form of an edge.
type EdgePayload struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// GraphResponse is a full snapshot together with the version it reflects.
type GraphResponse struct {
	Version  uint64          `json:"version"`
	Directed bool            `json:"directed"`
	Vertices []VertexPayload `json:"vertices"`
	Edges    []EdgePayload   `json:"edges"`
}

// MutationResponse acknowledges an accepted mutation with the version it
// was assigned. ID echoes the affected vertex id so callers learn
// server-generated ids.
type MutationResponse struct {
	Version uint64 `json:"version"`
	ID      string `json:"id,omitempty"`
}

// VersionResponse reports the current version number.
type VersionResponse struct {
	Version uint64 `json:"version"`
}

// G6Node and G6Edge follow the node/edge shape the AntV G6 renderer expects.
type G6Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type G6Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// G6Graph is a snapshot projected for the AntV G6 browser view.
type G6Graph struct {
	Nodes []G6Node `json:"nodes"`
	Edges []G6Edge `json:"edges"`
}
