package graph

import (
	"time"

	pkgerrors "graphmem-backend/pkg/errors"
)

// EmbeddingType selects which aspect of a node a vector captures.
type EmbeddingType string

const (
	// EmbeddingContent embeds the literal meaning of the node text.
	EmbeddingContent EmbeddingType = "content"

	// EmbeddingTitle embeds the semantic boundary (the slug/title).
	EmbeddingTitle EmbeddingType = "title"

	// EmbeddingContext embeds the node together with parent summaries.
	EmbeddingContext EmbeddingType = "context"

	// EmbeddingQuery embeds hypothetical questions the node answers.
	EmbeddingQuery EmbeddingType = "query"
)

// IsValid checks if the embedding type is valid
func (t EmbeddingType) IsValid() bool {
	switch t {
	case EmbeddingContent, EmbeddingTitle, EmbeddingContext, EmbeddingQuery:
		return true
	default:
		return false
	}
}

// String returns the string representation of the embedding type
func (t EmbeddingType) String() string {
	return string(t)
}

// Embedding is a fixed-width vector attached to a node, keyed by
// (node id, embedding type). Immutable once written; the model identifier
// is kept for provenance.
type Embedding struct {
	NodeID    string
	Type      EmbeddingType
	Vector    []float32
	Model     string
	CreatedAt time.Time
}

// NewEmbedding validates and builds an embedding record.
func NewEmbedding(nodeID string, t EmbeddingType, vector []float32, model string) (*Embedding, error) {
	if nodeID == "" {
		return nil, pkgerrors.NewValidationError("embedding node id cannot be empty")
	}
	if !t.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown embedding type " + string(t))
	}
	if len(vector) == 0 {
		return nil, pkgerrors.NewValidationError("embedding vector cannot be empty")
	}

	return &Embedding{
		NodeID:    nodeID,
		Type:      t,
		Vector:    vector,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}, nil
}
