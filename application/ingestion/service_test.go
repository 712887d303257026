package ingestion_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"graphmem-backend/application/ingestion"
	"graphmem-backend/domain/extraction"
	"graphmem-backend/domain/graph"
	"graphmem-backend/infrastructure/persistence/sqlite"
	"graphmem-backend/infrastructure/similarity"
	pkgerrors "graphmem-backend/pkg/errors"
)

// fakeExtractor maps message text to canned propositions.
type fakeExtractor struct {
	propositions map[string][]extraction.Proposition
	failOn       string
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) ([]extraction.Proposition, error) {
	if f.failOn != "" && text == f.failOn {
		return nil, pkgerrors.NewProviderError("chat completion", errors.New("connection refused"))
	}
	return f.propositions[text], nil
}

// fakeEmbedder maps proposition text to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := f.vectors[text]
	if !ok {
		return nil, pkgerrors.NewProviderError("embedding", errors.New("no vector for text"))
	}
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 3 }
func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

func prop(text string, confidence float64) extraction.Proposition {
	return extraction.Proposition{
		Text:       text,
		Purpose:    graph.PurposeObservation,
		Confidence: confidence,
		SourceType: graph.SourceExplicit,
	}
}

func newService(t *testing.T, extractor *fakeExtractor, embedder *fakeEmbedder) (*ingestion.Service, *sqlite.Store) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	store := sqlite.NewStore(db, logger)
	index := similarity.NewIndex()

	svc := ingestion.NewService(store, index, extractor, embedder, ingestion.DefaultConfig(), logger)
	return svc, store
}

func TestIngestMessage_StoresUniquePropositions(t *testing.T) {
	msg := "I ran a 5K in 35 minutes and felt great."
	run := prop("User ran a 5K in 35 minutes", 0.95)
	run.StructuredData = map[string]interface{}{"distance_km": 5.0, "duration": "35:00"}
	extractor := &fakeExtractor{propositions: map[string][]extraction.Proposition{
		msg: {
			run,
			prop("User felt great after the run", 0.9),
		},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"User ran a 5K in 35 minutes":    {1, 0, 0},
		"User felt great after the run":  {0, 1, 0},
	}}
	svc, store := newService(t, extractor, embedder)

	result, err := svc.IngestMessage(context.Background(), msg, ingestion.SessionMetadata{SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Extracted)
	assert.Equal(t, 2, result.Stored)
	assert.Equal(t, 0, result.DuplicatesFound)
	require.Len(t, result.NodeIDs, 2)
	require.Len(t, result.Propositions, 2)
	assert.Equal(t, 5.0, result.Propositions[0].StructuredData["distance_km"])

	node, err := store.GetNode(context.Background(), result.NodeIDs[0])
	require.NoError(t, err)
	assert.Equal(t, graph.KindLeaf, node.Kind)
	assert.Equal(t, "user-ran-a-5k-in", node.Title)
	assert.Equal(t, "User ran a 5K in 35 minutes", node.Content)
	require.NotNil(t, node.Belief)
	assert.Equal(t, "conversation", node.Belief.Source)
	assert.Equal(t, 0.95, node.Belief.Confidence)

	// Every stored node has its embedding persisted.
	embeddings, err := store.LoadEmbeddings(context.Background())
	require.NoError(t, err)
	assert.Len(t, embeddings, 2)
}

func TestIngestMessage_DedupAgainstStoredNodes(t *testing.T) {
	msg := "I ran a 5K today."
	extractor := &fakeExtractor{propositions: map[string][]extraction.Proposition{
		msg: {prop("User ran a 5K", 0.9)},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"User ran a 5K": {1, 0, 0},
	}}
	svc, _ := newService(t, extractor, embedder)

	first, err := svc.IngestMessage(context.Background(), msg, ingestion.SessionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Stored)

	// Same proposition again: recognized, not re-stored.
	second, err := svc.IngestMessage(context.Background(), msg, ingestion.SessionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Stored)
	assert.Equal(t, 1, second.DuplicatesFound)
	assert.Empty(t, second.NodeIDs)
}

func TestIngestMessage_IntraMessageDuplicates(t *testing.T) {
	msg := "I ran a 5K. Also, I ran five kilometers."
	extractor := &fakeExtractor{propositions: map[string][]extraction.Proposition{
		msg: {
			prop("User ran a 5K", 0.9),
			prop("User ran five kilometers", 0.9),
		},
	}}
	// Identical vectors: the second proposition duplicates the first before
	// either is persisted.
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"User ran a 5K":            {1, 0, 0},
		"User ran five kilometers": {1, 0, 0},
	}}
	svc, _ := newService(t, extractor, embedder)

	result, err := svc.IngestMessage(context.Background(), msg, ingestion.SessionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 1, result.DuplicatesFound)
}

func TestIngestMessage_ThresholdBanding(t *testing.T) {
	// cosine({1,0,0}, {0.9, 0.4359, 0}) ~= 0.90: related band, stored and linked.
	related := []float32{0.9, 0.4359, 0}
	// cosine({1,0,0}, {0.97, 0.243, 0}) ~= 0.97: duplicate band, dropped.
	duplicate := []float32{0.97, 0.243, 0}

	first := "I ran a 5K."
	second := "My run this morning went well."
	third := "I ran a 5K this morning."
	extractor := &fakeExtractor{propositions: map[string][]extraction.Proposition{
		first:  {prop("User ran a 5K", 0.9)},
		second: {prop("User had a good morning run", 0.8)},
		third:  {prop("User ran a 5K in the morning", 0.9)},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"User ran a 5K":                 {1, 0, 0},
		"User had a good morning run":   related,
		"User ran a 5K in the morning":  duplicate,
	}}
	svc, store := newService(t, extractor, embedder)
	ctx := context.Background()

	base, err := svc.IngestMessage(ctx, first, ingestion.SessionMetadata{})
	require.NoError(t, err)
	require.Len(t, base.NodeIDs, 1)

	// Related band: stored, with a SIMILAR_TO link back to the first node.
	linked, err := svc.IngestMessage(ctx, second, ingestion.SessionMetadata{})
	require.NoError(t, err)
	require.Len(t, linked.NodeIDs, 1)

	relatedNodes, err := store.GetRelated(ctx, linked.NodeIDs[0], graph.EdgeSimilarTo)
	require.NoError(t, err)
	require.Len(t, relatedNodes, 1)
	assert.Equal(t, base.NodeIDs[0], relatedNodes[0].Node.ID)
	assert.Equal(t, graph.DirectionOutgoing, relatedNodes[0].Direction)

	// Duplicate band: dropped.
	dup, err := svc.IngestMessage(ctx, third, ingestion.SessionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, 0, dup.Stored)
	assert.Equal(t, 1, dup.DuplicatesFound)
}

func TestIngestConversation_SkipsAssistantAndSurvivesFailures(t *testing.T) {
	good := "I started strength training."
	bad := "unreachable message"
	extractor := &fakeExtractor{
		propositions: map[string][]extraction.Proposition{
			good: {prop("User started strength training", 0.9)},
		},
		failOn: bad,
	}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"User started strength training": {0, 0, 1},
	}}
	svc, _ := newService(t, extractor, embedder)

	batch, err := svc.IngestConversation(context.Background(), []ingestion.ConversationMessage{
		{Text: "How should I train?", Speaker: ingestion.SpeakerAssistant, SessionID: "s1", MessageIndex: 0},
		{Text: bad, Speaker: ingestion.SpeakerUser, SessionID: "s1", MessageIndex: 1},
		{Text: good, Speaker: ingestion.SpeakerUser, SessionID: "s1", MessageIndex: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, batch.TotalMessages)
	assert.Equal(t, 1, batch.TotalStored)
	assert.Equal(t, 1, batch.SessionsProcessed)
	require.Len(t, batch.Errors, 1)
	assert.Contains(t, batch.Errors[0], "message 1")
}
