package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder with the Gemini batch embedding API
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiEmbedder creates a new Gemini embedder
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Embed sends every text in one BatchEmbedContents call
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	em := g.client.EmbeddingModel(g.model)
	batch := em.NewBatch()
	for _, text := range prepareInputs(texts) {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &UpstreamServiceError{Message: "gemini batch embed failed", Cause: err}
	}

	g.logger.Debug("gemini embedding response", zap.String("model", g.model), zap.Int("inputs", len(texts)))

	return vectorsFromGemini(resp, len(texts))
}

// Close releases resources held by the client
func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// vectorsFromGemini converts a batch response into float64 vectors, checking
// that every input received an embedding.
func vectorsFromGemini(resp *genai.BatchEmbedContentsResponse, expected int) ([][]float64, error) {
	if resp == nil {
		return nil, &ShapeMismatchError{Message: "empty response", Expected: expected}
	}
	if len(resp.Embeddings) != expected {
		return nil, &ShapeMismatchError{
			Message:  "vector count does not match input count",
			Expected: expected,
			Got:      len(resp.Embeddings),
		}
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, &ShapeMismatchError{Message: fmt.Sprintf("missing embedding at index %d", i)}
		}
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
