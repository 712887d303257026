package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphmem-backend/domain/graph"
)

func TestIndex_FindSimilar(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", graph.EmbeddingContent, []float32{1, 0, 0})
	idx.Insert("b", graph.EmbeddingContent, []float32{0, 1, 0})
	idx.Insert("c", graph.EmbeddingContent, []float32{0.9, 0.1, 0})

	matches := idx.FindSimilar([]float32{1, 0, 0}, graph.EmbeddingContent, 0.5, 0)
	require.Len(t, matches, 2)
	// Best first: identical vector scores 1.0.
	assert.Equal(t, "a", matches[0].NodeID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "c", matches[1].NodeID)
	assert.Less(t, matches[1].Score, matches[0].Score)
}

func TestIndex_FindSimilar_OrthogonalBelowThreshold(t *testing.T) {
	idx := NewIndex()
	idx.Insert("b", graph.EmbeddingContent, []float32{0, 1, 0})

	matches := idx.FindSimilar([]float32{1, 0, 0}, graph.EmbeddingContent, 0.01, 0)
	assert.Empty(t, matches)
}

func TestIndex_FindSimilar_Limit(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", graph.EmbeddingContent, []float32{1, 0})
	idx.Insert("b", graph.EmbeddingContent, []float32{0.9, 0.1})
	idx.Insert("c", graph.EmbeddingContent, []float32{0.8, 0.2})

	matches := idx.FindSimilar([]float32{1, 0}, graph.EmbeddingContent, 0.5, 2)
	assert.Len(t, matches, 2)
}

func TestIndex_FindSimilar_ZeroMagnitude(t *testing.T) {
	idx := NewIndex()
	idx.Insert("zero", graph.EmbeddingContent, []float32{0, 0, 0})
	idx.Insert("a", graph.EmbeddingContent, []float32{1, 0, 0})

	// Zero query never matches.
	assert.Nil(t, idx.FindSimilar([]float32{0, 0, 0}, graph.EmbeddingContent, 0, 0))

	// Zero entries are skipped, not divided by.
	matches := idx.FindSimilar([]float32{1, 0, 0}, graph.EmbeddingContent, 0.5, 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].NodeID)
}

func TestIndex_TypesAreSeparate(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", graph.EmbeddingContent, []float32{1, 0})
	idx.Insert("b", graph.EmbeddingTitle, []float32{1, 0})

	matches := idx.FindSimilar([]float32{1, 0}, graph.EmbeddingContent, 0.9, 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].NodeID)
	assert.Equal(t, 1, idx.Len(graph.EmbeddingTitle))
}

func TestIndex_Rebuild(t *testing.T) {
	idx := NewIndex()
	idx.Insert("stale", graph.EmbeddingContent, []float32{1, 0})

	idx.Rebuild([]*graph.Embedding{
		{NodeID: "x", Type: graph.EmbeddingContent, Vector: []float32{0, 1}},
		{NodeID: "y", Type: graph.EmbeddingTitle, Vector: []float32{1, 0}},
	})

	assert.Equal(t, 1, idx.Len(graph.EmbeddingContent))
	assert.Equal(t, 1, idx.Len(graph.EmbeddingTitle))

	matches := idx.FindSimilar([]float32{0, 1}, graph.EmbeddingContent, 0.9, 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "x", matches[0].NodeID)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 1}))
}
