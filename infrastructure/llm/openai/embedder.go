package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"graphmem-backend/application/ports"
	pkgerrors "graphmem-backend/pkg/errors"
)

// Embedder produces fixed-width vectors through the embeddings API.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int
}

// NewEmbedder creates an embedding provider. dimensions must match what
// the configured model emits; it is stored as provenance with every
// embedding row.
func NewEmbedder(apiKey, baseURL, model string, dimensions int) *Embedder {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Embedder{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: dimensions,
	}
}

// Embed returns the vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, pkgerrors.NewProviderError("embed", err)
	}
	if len(resp.Data) == 0 {
		return nil, pkgerrors.NewProviderError("embed",
			fmt.Errorf("embedding response contains no data"))
	}
	return toFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch returns one vector per input text, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, pkgerrors.NewProviderError("embed batch", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, pkgerrors.NewProviderError("embed batch",
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = toFloat32(d.Embedding)
	}
	return out, nil
}

// Dimensions reports the vector width of the configured model.
func (e *Embedder) Dimensions() int { return e.dimensions }

// ModelName reports the model identifier stored as embedding provenance.
func (e *Embedder) ModelName() string { return e.model }

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

var _ ports.EmbeddingProvider = (*Embedder)(nil)
