package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-recommender/internal/config"
	"github.com/jonathan/job-recommender/internal/db"
	"github.com/jonathan/job-recommender/internal/embedding"
)

// EmbeddingConfig converts the application settings into an embedding.Config.
func EmbeddingConfig(cfg config.EmbeddingConfig) *embedding.Config {
	return &embedding.Config{
		Provider: embedding.Provider(cfg.Provider),
		URL:      cfg.URL,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	}
}

// Open connects to the database, creates the configured embedder and returns
// a ready Service. The returned close function releases both.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, func(), error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	embedder, err := embedding.New(ctx, EmbeddingConfig(cfg.Embedding), logger)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	closeFn := func() {
		if err := embedder.Close(); err != nil {
			logger.Warn("failed to close embedder", zap.Error(err))
		}
		database.Close()
	}

	return NewService(database, embedder, cfg.CandidateLimit, logger), closeFn, nil
}
