// Package embedding turns batches of text into vectors using an external
// inference provider.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Embedder converts texts into vectors, one per input and in input order.
type Embedder interface {
	// Embed issues a single batched request for all texts
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Close releases any resources held by the embedder
	Close() error
}

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderHTTP is a generic inference endpoint accepting {"inputs": [...]}
	ProviderHTTP Provider = "http"
	// ProviderGemini is the Google Gemini embedding API
	ProviderGemini Provider = "gemini"
)

// Defaults for the HTTP provider
const (
	DefaultModel   = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultURL     = "https://api-inference.huggingface.co/pipeline/feature-extraction/" + DefaultModel
	DefaultTimeout = 15 * time.Second

	// DefaultGeminiModel is used when the Gemini provider has no model configured
	DefaultGeminiModel = "text-embedding-004"
)

// emptyPlaceholder replaces empty inputs, which many providers reject.
const emptyPlaceholder = " "

// Config holds the embedding provider configuration
type Config struct {
	Provider Provider
	URL      string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (HTTP provider)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderHTTP,
		URL:      DefaultURL,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
	}
}

// New creates an Embedder for the configured provider
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (Embedder, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderGemini:
		model := cfg.Model
		if model == "" || model == DefaultModel {
			model = DefaultGeminiModel
		}
		return NewGeminiEmbedder(ctx, cfg.APIKey, model, logger)
	case ProviderHTTP, "":
		url := cfg.URL
		if url == "" {
			url = DefaultURL
		}
		return NewHTTPEmbedder(HTTPOptions{
			URL:     url,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: timeout,
			Client:  &http.Client{Timeout: timeout},
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

// prepareInputs copies texts, substituting a single space for empty strings.
// Nothing else is altered.
func prepareInputs(texts []string) []string {
	inputs := make([]string, len(texts))
	for i, t := range texts {
		if t == "" {
			t = emptyPlaceholder
		}
		inputs[i] = t
	}
	return inputs
}
