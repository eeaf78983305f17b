package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-recommender/internal/logger"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 64 << 20

// Doer is the HTTP capability the embedder needs; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPOptions configures an HTTPEmbedder
type HTTPOptions struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
	Client  Doer
}

// HTTPEmbedder calls an inference endpoint that accepts {"inputs": [...]} and
// answers with a matrix of floats or {"embeddings": matrix}.
type HTTPEmbedder struct {
	url     string
	apiKey  string
	model   string
	timeout time.Duration
	client  Doer
	logger  *zap.Logger
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
	Model  string   `json:"model,omitempty"`
}

// NewHTTPEmbedder creates an embedder for a generic inference endpoint
func NewHTTPEmbedder(opts HTTPOptions, logger *zap.Logger) *HTTPEmbedder {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPEmbedder{
		url:     opts.URL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		timeout: opts.Timeout,
		client:  opts.Client,
		logger:  logger,
	}
}

// Embed sends all texts in one request and returns one vector per text.
// It does not retry.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	body, err := json.Marshal(embedRequest{Inputs: prepareInputs(texts), Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &UpstreamServiceError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamServiceError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	e.logger.Debug("embedding response",
		zap.Int("inputs", len(texts)),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(payload)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamServiceError{
			StatusCode: resp.StatusCode,
			Message:    logger.Truncate(string(payload), 200),
		}
	}

	return decodeVectors(payload, len(texts))
}

// Close releases idle connections when the underlying client is an *http.Client.
func (e *HTTPEmbedder) Close() error {
	if c, ok := e.client.(*http.Client); ok {
		c.CloseIdleConnections()
	}
	return nil
}

