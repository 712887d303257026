// Package ingestion orchestrates the extract, embed, dedup, store and link
// pipeline that turns free text into leaf nodes of the knowledge graph.
package ingestion

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/extraction"
	"graphmem-backend/domain/graph"
)

// Config holds the pipeline tuning knobs.
type Config struct {
	// DedupThreshold is the duplicate band floor: cosine similarity at or
	// above it means "same proposition", counted but not stored.
	DedupThreshold float64

	// LinkThreshold is the related band floor: scores in
	// [LinkThreshold, DedupThreshold) produce SIMILAR_TO edges.
	LinkThreshold float64

	// MaxLinks caps the SIMILAR_TO edges created per new node.
	MaxLinks int

	// TitleWords caps how many words the generated title slug keeps.
	TitleWords int

	// ProviderTimeout bounds each external call so a hung collaborator is
	// reported as a provider failure rather than stalling the batch.
	ProviderTimeout time.Duration
}

// DefaultConfig returns the standard pipeline thresholds.
func DefaultConfig() Config {
	return Config{
		DedupThreshold:  0.95,
		LinkThreshold:   0.85,
		MaxLinks:        5,
		TitleWords:      5,
		ProviderTimeout: 60 * time.Second,
	}
}

// Service sequences extraction, embedding, deduplication, storage and
// relationship linking. Processing is sequential within a message and a
// batch: later dedup decisions must observe all earlier stores from the
// same batch, so no fan-out across propositions is permitted.
type Service struct {
	store     ports.GraphStore
	index     ports.SimilarityIndex
	extractor ports.ExtractionProvider
	embedder  ports.EmbeddingProvider
	logger    *zap.Logger
	cfg       Config
}

// NewService creates an ingestion service.
func NewService(
	store ports.GraphStore,
	index ports.SimilarityIndex,
	extractor ports.ExtractionProvider,
	embedder ports.EmbeddingProvider,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.DedupThreshold == 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		store:     store,
		index:     index,
		extractor: extractor,
		embedder:  embedder,
		logger:    logger,
		cfg:       cfg,
	}
}

// pending is a unique proposition waiting for the store phase.
type pending struct {
	prop   extraction.Proposition
	vector []float32
}

// created is a stored node awaiting the link phase.
type created struct {
	nodeID string
	vector []float32
}

// IngestMessage runs the full pipeline for one message: extract once, then
// per proposition embed and dedup-check sequentially, then store every
// unique proposition (node row before embedding row, then index append),
// and only after all stores run the best-effort link phase.
func (s *Service) IngestMessage(ctx context.Context, text string, meta SessionMetadata) (*MessageResult, error) {
	result := &MessageResult{SessionID: meta.SessionID}

	props, err := s.extract(ctx, text)
	if err != nil {
		return nil, err
	}
	result.Propositions = props
	result.Extracted = len(props)
	if len(props) == 0 {
		return result, nil
	}

	// Classification: embed sequentially so each proposition sees every
	// earlier one from the same message, catching intra-message duplicates.
	var unique []pending
	for _, prop := range props {
		vector, err := s.embed(ctx, prop.Text)
		if err != nil {
			return nil, err
		}

		if s.isDuplicate(vector, unique) {
			result.DuplicatesFound++
			continue
		}
		unique = append(unique, pending{prop: prop, vector: vector})
	}

	// Store phase: node row first, embedding row second, cache append last.
	// A node must never be visible without its embedding persisted.
	createdNodes := make([]created, 0, len(unique))
	for _, u := range unique {
		node, err := graph.NewLeafNode(
			Slugify(u.prop.Text, s.cfg.TitleWords),
			u.prop.Text,
			sourceOf(meta),
			string(u.prop.Purpose),
			u.prop.SourceType,
			"",
			u.prop.Confidence,
		)
		if err != nil {
			return nil, err
		}

		if err := s.store.CreateNode(ctx, node); err != nil {
			return nil, err
		}

		emb, err := graph.NewEmbedding(node.ID, graph.EmbeddingContent, u.vector, s.embedder.ModelName())
		if err != nil {
			return nil, err
		}
		if err := s.store.StoreEmbedding(ctx, emb); err != nil {
			// Storage invariant violation: the node row exists without its
			// embedding. Surface it; do not continue the message.
			return nil, err
		}
		s.index.Insert(node.ID, graph.EmbeddingContent, u.vector)

		result.NodeIDs = append(result.NodeIDs, node.ID)
		result.Stored++
		createdNodes = append(createdNodes, created{nodeID: node.ID, vector: u.vector})
	}

	// Link phase: best-effort enrichment, never rolled back into node
	// creation.
	for _, c := range createdNodes {
		s.linkSimilar(ctx, c)
	}

	return result, nil
}

// isDuplicate checks the persisted index and the not-yet-stored unique set
// of the current message against the duplicate band.
func (s *Service) isDuplicate(vector []float32, unique []pending) bool {
	if len(s.index.FindSimilar(vector, graph.EmbeddingContent, s.cfg.DedupThreshold, 1)) > 0 {
		return true
	}
	for _, u := range unique {
		if cosine(vector, u.vector) >= s.cfg.DedupThreshold {
			return true
		}
	}
	return false
}

// linkSimilar connects a freshly stored node to its related band:
// similarity in [LinkThreshold, DedupThreshold), self excluded, top
// MaxLinks candidates, similarity as edge confidence. Failures here are
// logged and discarded.
func (s *Service) linkSimilar(ctx context.Context, c created) {
	matches := s.index.FindSimilar(c.vector, graph.EmbeddingContent, s.cfg.LinkThreshold, 0)

	linked := 0
	for _, m := range matches {
		if linked >= s.cfg.MaxLinks {
			break
		}
		if m.NodeID == c.nodeID || m.Score >= s.cfg.DedupThreshold {
			continue
		}

		_, err := s.store.CreateEdge(ctx, c.nodeID, m.NodeID, graph.EdgeSimilarTo, graph.EdgeProps{
			Confidence: m.Score,
		})
		if err != nil {
			s.logger.Debug("similar-to edge skipped",
				zap.String("from", c.nodeID),
				zap.String("to", m.NodeID),
				zap.Error(err),
			)
			continue
		}
		linked++
	}
}

// IngestConversation folds the per-message pipeline over a conversation.
// Only user messages are extracted; a failed message is recorded with its
// index and the batch continues.
func (s *Service) IngestConversation(ctx context.Context, messages []ConversationMessage) (*BatchResult, error) {
	batch := &BatchResult{TotalMessages: len(messages)}
	sessions := make(map[string]struct{})

	for _, msg := range messages {
		if msg.Speaker != SpeakerUser {
			continue
		}
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		sessions[msg.SessionID] = struct{}{}

		result, err := s.IngestMessage(ctx, msg.Text, SessionMetadata{
			SessionID:    msg.SessionID,
			MessageIndex: msg.MessageIndex,
			SourceFile:   msg.SourceFile,
		})
		if err != nil {
			batch.Errors = append(batch.Errors, fmt.Sprintf("message %d: %v", msg.MessageIndex, err))
			continue
		}

		batch.TotalExtracted += result.Extracted
		batch.TotalStored += result.Stored
		batch.TotalDuplicates += result.DuplicatesFound
	}

	batch.SessionsProcessed = len(sessions)
	return batch, nil
}

// IngestDirectory parses every matching conversation export under dir and
// folds them through the conversation pipeline. Per-file parse failures
// are recorded and skipped; session identifiers are unioned across files.
func (s *Service) IngestDirectory(ctx context.Context, dir, pattern string) (*BatchResult, error) {
	files, err := globExports(dir, pattern)
	if err != nil {
		return nil, err
	}

	aggregate := &BatchResult{}
	sessions := make(map[string]struct{})

	for _, file := range files {
		messages, err := ParseFile(file)
		if err != nil {
			aggregate.Errors = append(aggregate.Errors, fmt.Sprintf("parse %s: %v", file, err))
			continue
		}

		batch, err := s.IngestConversation(ctx, messages)
		if batch != nil {
			aggregate.TotalMessages += batch.TotalMessages
			aggregate.TotalExtracted += batch.TotalExtracted
			aggregate.TotalStored += batch.TotalStored
			aggregate.TotalDuplicates += batch.TotalDuplicates
			aggregate.Errors = append(aggregate.Errors, batch.Errors...)
		}
		if err != nil {
			return aggregate, err
		}

		for _, msg := range messages {
			if msg.Speaker == SpeakerUser {
				sessions[msg.SessionID] = struct{}{}
			}
		}
	}

	aggregate.SessionsProcessed = len(sessions)
	return aggregate, nil
}

// extract wraps the single extraction call per message in a bounded
// timeout so an unreachable collaborator is distinguished from an invalid
// payload.
func (s *Service) extract(ctx context.Context, text string) ([]extraction.Proposition, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()
	return s.extractor.Extract(callCtx, text)
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()
	return s.embedder.Embed(callCtx, text)
}

func sourceOf(meta SessionMetadata) string {
	if meta.Source != "" {
		return meta.Source
	}
	return "conversation"
}

// cosine is the dedup check against not-yet-stored vectors of the current
// message; the index handles everything already persisted.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, ma, mb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		ma += va * va
		mb += vb * vb
	}
	if ma == 0 || mb == 0 {
		return 0
	}
	return dot / (math.Sqrt(ma) * math.Sqrt(mb))
}
