// Package similarity provides an in-memory brute-force vector index over
// the embeddings persisted by the graph store. Every query scans all
// cached vectors of one embedding type; that is O(n) per lookup and holds
// up to roughly tens of thousands of vectors, beyond which an external
// vector index should replace this package.
package similarity

import (
	"math"
	"sort"
	"sync"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/graph"
)

type entry struct {
	nodeID    string
	vector    []float32
	magnitude float64
}

// Index keeps one growable vector collection per embedding type. The
// mutex guards memory safety only; coherence with the durable rows still
// requires the single-writer discipline documented on ports.GraphStore.
type Index struct {
	mu      sync.RWMutex
	entries map[graph.EmbeddingType][]entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[graph.EmbeddingType][]entry),
	}
}

// Insert appends a vector under the given embedding type.
func (idx *Index) Insert(nodeID string, t graph.EmbeddingType, vector []float32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[t] = append(idx.entries[t], entry{
		nodeID:    nodeID,
		vector:    vector,
		magnitude: magnitude(vector),
	})
}

// FindSimilar computes cosine similarity between query and every cached
// vector of the given type, keeps scores >= threshold, sorts descending
// and returns at most limit matches. Pairs where either magnitude is zero
// are skipped to guard against divide-by-zero.
func (idx *Index) FindSimilar(query []float32, t graph.EmbeddingType, threshold float64, limit int) []ports.Match {
	qm := magnitude(query)
	if qm == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []ports.Match
	for _, e := range idx.entries[t] {
		if e.magnitude == 0 || len(e.vector) != len(query) {
			continue
		}
		score := dot(query, e.vector) / (qm * e.magnitude)
		if math.IsNaN(score) || score < threshold {
			continue
		}
		matches = append(matches, ports.Match{NodeID: e.nodeID, Score: score})
	}

	sort.Slice(matches, func(a, b int) bool { return matches[a].Score > matches[b].Score })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Rebuild replaces the cache from the persisted embeddings. This is the
// reconciliation path used at startup and after any detected inconsistency
// between cache and durable rows.
func (idx *Index) Rebuild(embeddings []*graph.Embedding) {
	fresh := make(map[graph.EmbeddingType][]entry, len(embeddings))
	for _, emb := range embeddings {
		fresh[emb.Type] = append(fresh[emb.Type], entry{
			nodeID:    emb.NodeID,
			vector:    emb.Vector,
			magnitude: magnitude(emb.Vector),
		})
	}

	idx.mu.Lock()
	idx.entries = fresh
	idx.mu.Unlock()
}

// Len reports the number of cached vectors for an embedding type.
func (idx *Index) Len(t graph.EmbeddingType) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries[t])
}

// Cosine computes cosine similarity between two vectors, returning 0 when
// either vector has zero magnitude or dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	ma, mb := magnitude(a), magnitude(b)
	if ma == 0 || mb == 0 {
		return 0
	}
	return dot(a, b) / (ma * mb)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

var _ ports.SimilarityIndex = (*Index)(nil)
