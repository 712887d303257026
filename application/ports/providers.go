package ports

import (
	"context"

	"graphmem-backend/domain/extraction"
)

// ExtractionProvider turns free text into validated propositions.
// Implementations return PROVIDER errors when the collaborator is
// unreachable, times out, or answers with a non-success status, and
// EXTRACTION errors when a response arrived but failed schema validation.
type ExtractionProvider interface {
	Extract(ctx context.Context, text string) ([]extraction.Proposition, error)
}

// EmbeddingProvider turns text into fixed-width vectors. Dimensions and
// ModelName feed the provenance fields stored alongside each embedding.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
}
