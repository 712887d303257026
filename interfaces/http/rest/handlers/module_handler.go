package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/graph"
	"graphmem-backend/pkg/utils"
)

// ModuleHandler handles module declaration requests
type ModuleHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(store ports.GraphStore, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		store:  store,
		logger: logger,
	}
}

// CreateModuleRequest represents the request body for declaring a module
type CreateModuleRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content,omitempty"`
	Primary       string   `json:"primary" validate:"required"`
	Secondary     []string `json:"secondary,omitempty"`
	Done          string   `json:"definitionOfDone,omitempty"`
	Priority      int      `json:"priority,omitempty" validate:"omitempty,min=0,max=10"`
	ResearchDepth int      `json:"researchDepth,omitempty" validate:"omitempty,min=0,max=5"`
}

// CreateModule handles POST /modules
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := graph.NewModuleNode(req.Title, req.Content, graph.Intentions{
		Primary:          req.Primary,
		Secondary:        req.Secondary,
		DefinitionOfDone: req.Done,
		DeclaredPriority: req.Priority,
	}, req.Priority, req.ResearchDepth)
	if err != nil {
		respondAppError(w, err)
		return
	}

	if err := h.store.CreateNode(r.Context(), node); err != nil {
		h.logger.Error("Failed to create module",
			zap.String("title", req.Title),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toNodeResponse(node))
}
