package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
)

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondAppError maps classified errors onto HTTP statuses.
func respondAppError(w http.ResponseWriter, err error) {
	body := errorResponse{Error: err.Error()}
	if appErr, ok := err.(*pkgerrors.AppError); ok {
		body.Error = appErr.Message
		body.Type = string(appErr.Type)
	}
	respondJSON(w, pkgerrors.HTTPStatusOf(err), body)
}

// nodeResponse is the wire shape of a node, flattened per variant.
type nodeResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// module variant
	Intentions    *graph.Intentions `json:"intentions,omitempty"`
	Priority      *int              `json:"priority,omitempty"`
	ResearchDepth *int              `json:"researchDepth,omitempty"`
	Active        *bool             `json:"active,omitempty"`

	// internal/leaf variant
	Status     string     `json:"status,omitempty"`
	Source     string     `json:"source,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	Purpose    string     `json:"purpose,omitempty"`
	SourceType string     `json:"sourceType,omitempty"`
	Valence    string     `json:"valence,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`

	// organization variant
	OrgKind string `json:"orgKind,omitempty"`
}

func toNodeResponse(n *graph.Node) nodeResponse {
	resp := nodeResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}

	switch {
	case n.Module != nil:
		resp.Intentions = &n.Module.Intentions
		resp.Priority = &n.Module.Priority
		resp.ResearchDepth = &n.Module.ResearchDepth
		resp.Active = &n.Module.Active
	case n.Belief != nil:
		resp.Status = string(n.Belief.Status)
		resp.Source = n.Belief.Source
		resp.Confidence = &n.Belief.Confidence
		resp.Purpose = string(n.Belief.Purpose)
		resp.SourceType = string(n.Belief.SourceType)
		resp.Valence = string(n.Belief.Valence)
		resp.RecordedAt = &n.Belief.RecordedAt
	case n.Org != nil:
		resp.OrgKind = string(n.Org.Kind)
		resp.Confidence = &n.Org.Confidence
	}
	return resp
}
