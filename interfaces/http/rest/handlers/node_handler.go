package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(store ports.GraphStore, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		store:  store,
		logger: logger,
	}
}

// relatedResponse pairs a node with its direction relative to the queried one
type relatedResponse struct {
	Node      nodeResponse `json:"node"`
	Direction string       `json:"direction"`
	EdgeType  string       `json:"edgeType"`
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if _, err := uuid.Parse(nodeID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid node ID format")
		return
	}

	node, err := h.store.GetNode(r.Context(), nodeID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to get node",
				zap.String("nodeID", nodeID),
				zap.Error(err),
			)
		}
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toNodeResponse(node))
}

// GetChildren handles GET /nodes/{nodeID}/children
func (h *NodeHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if _, err := uuid.Parse(nodeID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid node ID format")
		return
	}

	children, err := h.store.GetChildren(r.Context(), nodeID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to get children",
				zap.String("nodeID", nodeID),
				zap.Error(err),
			)
		}
		respondAppError(w, err)
		return
	}

	responses := make([]nodeResponse, 0, len(children))
	for _, child := range children {
		responses = append(responses, toNodeResponse(child))
	}
	respondJSON(w, http.StatusOK, responses)
}

// GetRelated handles GET /nodes/{nodeID}/related?type=SUPPORTS
func (h *NodeHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if _, err := uuid.Parse(nodeID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid node ID format")
		return
	}

	var edgeType graph.EdgeType
	if t := r.URL.Query().Get("type"); t != "" {
		edgeType = graph.EdgeType(t)
		if !edgeType.IsRelationship() {
			respondError(w, http.StatusBadRequest, "Unknown relationship type: "+t)
			return
		}
	}

	related, err := h.store.GetRelated(r.Context(), nodeID, edgeType)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to get related nodes",
				zap.String("nodeID", nodeID),
				zap.Error(err),
			)
		}
		respondAppError(w, err)
		return
	}

	responses := make([]relatedResponse, 0, len(related))
	for _, rel := range related {
		responses = append(responses, relatedResponse{
			Node:      toNodeResponse(rel.Node),
			Direction: string(rel.Direction),
			EdgeType:  string(rel.EdgeType),
		})
	}
	respondJSON(w, http.StatusOK, responses)
}
