package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
	"graphmem-backend/pkg/utils"
)

// EdgeHandler handles edge-related HTTP requests
type EdgeHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(store ports.GraphStore, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{
		store:  store,
		logger: logger,
	}
}

// CreateEdgeRequest represents the request body for creating an edge
type CreateEdgeRequest struct {
	FromID     string  `json:"fromId" validate:"required,uuid"`
	ToID       string  `json:"toId" validate:"required,uuid"`
	Type       string  `json:"type" validate:"required"`
	Confidence float64 `json:"confidence,omitempty" validate:"omitempty,min=0,max=1"`
	Rationale  string  `json:"rationale,omitempty"`
}

// CreateEdgeResponse represents the created edge
type CreateEdgeResponse struct {
	ID         string    `json:"id"`
	FromID     string    `json:"fromId"`
	ToID       string    `json:"toId"`
	Type       string    `json:"type"`
	Confidence float64   `json:"confidence"`
	Rationale  string    `json:"rationale,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	edge, err := h.store.CreateEdge(r.Context(), req.FromID, req.ToID, graph.EdgeType(req.Type), graph.EdgeProps{
		Confidence: req.Confidence,
		Rationale:  req.Rationale,
	})
	if err != nil {
		if !pkgerrors.IsValidation(err) && !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to create edge",
				zap.String("fromID", req.FromID),
				zap.String("toID", req.ToID),
				zap.String("type", req.Type),
				zap.Error(err),
			)
		}
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateEdgeResponse{
		ID:         edge.ID,
		FromID:     edge.FromID,
		ToID:       edge.ToID,
		Type:       string(edge.Type),
		Confidence: edge.Confidence,
		Rationale:  edge.Rationale,
		CreatedAt:  edge.CreatedAt,
	})
}
