package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"histograph/graph"
	"histograph/utils"
	"histograph/web/types"
)

// GraphHandler translates inbound HTTP requests into store operations and
// marshals snapshots onto the wire. It is stateless beyond request-scoped
// buffers; the store handle is the only dependency.
type GraphHandler struct {
	store  *graph.Store
	logger *zap.Logger
}

func NewGraphHandler(store *graph.Store, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		store:  store,
		logger: logger,
	}
}

func snapshotResponse(snap *graph.Snapshot) types.GraphResponse {
	vertices := snap.Vertices()
	edges := snap.Edges()

	resp := types.GraphResponse{
		Version:  snap.Version(),
		Directed: snap.Directed(),
		Vertices: make([]types.VertexPayload, 0, len(vertices)),
		Edges:    make([]types.EdgePayload, 0, len(edges)),
	}
	for _, v := range vertices {
		resp.Vertices = append(resp.Vertices, types.VertexPayload{ID: string(v.ID), Attrs: v.Attrs})
	}
	for _, e := range edges {
		resp.Edges = append(resp.Edges, types.EdgePayload{Source: string(e.From), Target: string(e.To), Attrs: e.Attrs})
	}
	return resp
}

// GetGraph returns the full current snapshot plus its version.
func (h *GraphHandler) GetGraph(c *gin.Context) {
	snap := h.store.Current()
	c.JSON(http.StatusOK, snapshotResponse(snap))
}

// GetGraphAtVersion returns the snapshot at the requested version, or 404 if
// the version exceeds the log length.
func (h *GraphHandler) GetGraphAtVersion(c *gin.Context) {
	version, err := strconv.ParseUint(c.Param("version"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "version must be a non-negative integer")
		return
	}

	snap, err := h.store.SnapshotAt(version)
	if err != nil {
		respondWithDomainError(c, err, h.logger, zap.Uint64("version", version))
		return
	}
	c.JSON(http.StatusOK, snapshotResponse(snap))
}

// GetGraphG6 returns the current snapshot in the node/edge shape the AntV G6
// renderer consumes.
func (h *GraphHandler) GetGraphG6(c *gin.Context) {
	snap := h.store.Current()

	g6 := types.G6Graph{
		Nodes: make([]types.G6Node, 0, snap.NumVertices()),
		Edges: make([]types.G6Edge, 0, snap.NumEdges()),
	}
	for _, v := range snap.Vertices() {
		label := string(v.ID)
		if name, ok := v.Attrs["label"]; ok {
			label = name
		}
		g6.Nodes = append(g6.Nodes, types.G6Node{ID: string(v.ID), Label: label})
	}
	for _, e := range snap.Edges() {
		label := "edge"
		if name, ok := e.Attrs["label"]; ok {
			label = name
		}
		g6.Edges = append(g6.Edges, types.G6Edge{Source: string(e.From), Target: string(e.To), Label: label})
	}
	c.JSON(http.StatusOK, g6)
}

// GetVersion returns the current version number.
func (h *GraphHandler) GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, types.VersionResponse{Version: h.store.Version()})
}

// GetVertex is a point lookup against the current snapshot.
func (h *GraphHandler) GetVertex(c *gin.Context) {
	id := c.Param("id")
	snap := h.store.Current()

	v, ok := snap.Vertex(graph.VertexID(id))
	if !ok {
		respondWithClientError(c, http.StatusNotFound, "vertex not found")
		return
	}
	c.JSON(http.StatusOK, types.VertexPayload{ID: string(v.ID), Attrs: v.Attrs})
}

// AddVertex appends an AddVertex event. An empty id selects a
// server-generated UUID, echoed back in the response.
func (h *GraphHandler) AddVertex(c *gin.Context) {
	var payload types.VertexPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "invalid vertex payload")
		return
	}

	if payload.ID == "" {
		payload.ID = utils.GenerateVertexID()
	}
	if err := utils.ValidateVertexID(payload.ID); err != nil {
		respondWithClientError(c, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.store.AddVertex(c.Request.Context(), graph.VertexID(payload.ID), payload.Attrs)
	if err != nil {
		respondWithDomainError(c, err, h.logger, zap.String("vertex", payload.ID))
		return
	}
	c.JSON(http.StatusOK, types.MutationResponse{Version: version, ID: payload.ID})
}

// RemoveVertex appends a RemoveVertex event; conflicts while incident edges
// remain.
func (h *GraphHandler) RemoveVertex(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateVertexID(id); err != nil {
		respondWithClientError(c, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.store.RemoveVertex(c.Request.Context(), graph.VertexID(id))
	if err != nil {
		respondWithDomainError(c, err, h.logger, zap.String("vertex", id))
		return
	}
	c.JSON(http.StatusOK, types.MutationResponse{Version: version, ID: id})
}

// AddEdge appends an AddEdge event; conflicts if either endpoint is absent.
func (h *GraphHandler) AddEdge(c *gin.Context) {
	var payload types.EdgePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "invalid edge payload")
		return
	}
	if err := utils.ValidateVertexID(payload.Source); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "source: "+err.Error())
		return
	}
	if err := utils.ValidateVertexID(payload.Target); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "target: "+err.Error())
		return
	}

	version, err := h.store.AddEdge(c.Request.Context(), graph.VertexID(payload.Source), graph.VertexID(payload.Target), payload.Attrs)
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.String("source", payload.Source),
			zap.String("target", payload.Target))
		return
	}
	c.JSON(http.StatusOK, types.MutationResponse{Version: version})
}

// RemoveEdge appends a RemoveEdge event; 404 if the edge is absent, so a
// repeated removal is reported rather than silently succeeding.
func (h *GraphHandler) RemoveEdge(c *gin.Context) {
	var payload types.EdgePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "invalid edge payload")
		return
	}
	if err := utils.ValidateVertexID(payload.Source); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "source: "+err.Error())
		return
	}
	if err := utils.ValidateVertexID(payload.Target); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "target: "+err.Error())
		return
	}

	version, err := h.store.RemoveEdge(c.Request.Context(), graph.VertexID(payload.Source), graph.VertexID(payload.Target))
	if err != nil {
		respondWithDomainError(c, err, h.logger,
			zap.String("source", payload.Source),
			zap.String("target", payload.Target))
		return
	}
	c.JSON(http.StatusOK, types.MutationResponse{Version: version})
}
