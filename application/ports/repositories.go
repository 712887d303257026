// Package ports declares the interfaces the application layer depends on.
// Infrastructure supplies the implementations.
package ports

import (
	"context"

	"graphmem-backend/domain/graph"
)

// GraphStore is the typed graph store boundary: node/edge tables with
// static table-pair constraints plus the embedding rows that survive
// restarts. One store instance must be driven by at most one ingestion
// worker at a time; the in-memory similarity cache and the durable rows
// stay coherent only under that single-writer discipline.
type GraphStore interface {
	// CreateNode persists a node built by one of the domain constructors.
	CreateNode(ctx context.Context, node *graph.Node) error

	// GetNode retrieves any node variant by id, or a NOT_FOUND error.
	GetNode(ctx context.Context, id string) (*graph.Node, error)

	// CreateEdge validates the edge type and the (from, to) kind pair
	// against the static constraint table before writing. Missing
	// endpoints are NOT_FOUND; illegal types or pairs are VALIDATION.
	CreateEdge(ctx context.Context, fromID, toID string, t graph.EdgeType, props graph.EdgeProps) (*graph.Edge, error)

	// GetChildren returns the CONTAINS members of a node. Non-container
	// variants yield an empty slice.
	GetChildren(ctx context.Context, id string) ([]*graph.Node, error)

	// GetRelated returns nodes connected through the semantic relationship
	// set in both directions, each tagged with its direction relative to
	// the queried node. A non-empty edgeType restricts to that type.
	GetRelated(ctx context.Context, id string, edgeType graph.EdgeType) ([]graph.Related, error)

	// StoreEmbedding persists an embedding row. The owning node row must
	// already exist.
	StoreEmbedding(ctx context.Context, emb *graph.Embedding) error

	// LoadEmbeddings returns every persisted embedding. This is the full
	// rebuild path for the similarity index at startup and after any
	// detected inconsistency.
	LoadEmbeddings(ctx context.Context) ([]*graph.Embedding, error)
}

// Match is one similarity hit.
type Match struct {
	NodeID string
	Score  float64
}

// SimilarityIndex is the in-memory vector cache over the persisted
// embeddings. Brute-force scan; acceptable to roughly tens of thousands of
// vectors, after which an external index replaces this implementation.
type SimilarityIndex interface {
	// Insert appends a vector for a node under the given embedding type.
	Insert(nodeID string, t graph.EmbeddingType, vector []float32)

	// FindSimilar returns nodes of the given embedding type whose cosine
	// similarity against query is at least threshold, best first, at most
	// limit entries. Zero-magnitude vectors never match.
	FindSimilar(query []float32, t graph.EmbeddingType, threshold float64, limit int) []Match

	// Rebuild replaces the cache contents from persisted embeddings.
	Rebuild(embeddings []*graph.Embedding)

	// Len reports the number of cached vectors for an embedding type.
	Len(t graph.EmbeddingType) int
}
