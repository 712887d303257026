// Package openai implements the extraction and embedding providers on the
// OpenAI API. A configurable base URL covers any OpenAI-compatible
// runtime, including local inference servers.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/extraction"
	pkgerrors "graphmem-backend/pkg/errors"
)

// Extractor turns free text into propositions via a chat completion in
// JSON mode.
type Extractor struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewExtractor creates an extraction provider. baseURL may be empty for
// the default API endpoint.
func NewExtractor(apiKey, baseURL, model string, logger *zap.Logger) *Extractor {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Extractor{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// extractionResponse is the expected shape of the model output.
type extractionResponse struct {
	Propositions []extraction.Proposition `json:"propositions"`
}

// Extract calls the model once per message. Transport and status failures
// surface as PROVIDER errors; a response that arrived but does not match
// the schema surfaces as EXTRACTION.
func (e *Extractor) Extract(ctx context.Context, text string) ([]extraction.Proposition, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractionSystemPrompt),
			openai.UserMessage(text),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, pkgerrors.NewProviderError("extract", err)
	}
	if len(resp.Choices) == 0 {
		return nil, pkgerrors.NewExtractionError("extraction response contains no choices")
	}

	props, err := parseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extraction complete",
		zap.Int("propositions", len(props)),
		zap.String("model", e.model),
	)
	return props, nil
}

// parseExtraction validates the raw model output against the proposition
// schema. Any mismatch is an EXTRACTION error carrying enough of the raw
// payload to diagnose the failure.
func parseExtraction(raw string) ([]extraction.Proposition, error) {
	var parsed extractionResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, pkgerrors.NewExtractionError(
			fmt.Sprintf("extraction returned invalid JSON: %s", truncate(raw, 200)))
	}
	if parsed.Propositions == nil {
		return nil, pkgerrors.NewExtractionError("extraction response missing 'propositions' key")
	}

	for i := range parsed.Propositions {
		if err := parsed.Propositions[i].Validate(); err != nil {
			return nil, pkgerrors.NewExtractionError(
				fmt.Sprintf("proposition %d failed validation: %v", i, err))
		}
	}
	return parsed.Propositions, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ ports.ExtractionProvider = (*Extractor)(nil)
