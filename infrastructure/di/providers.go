package di

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"graphmem-backend/application/ingestion"
	"graphmem-backend/application/ports"
	"graphmem-backend/infrastructure/config"
	openaillm "graphmem-backend/infrastructure/llm/openai"
	sqlitestore "graphmem-backend/infrastructure/persistence/sqlite"
	"graphmem-backend/infrastructure/similarity"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *sql.DB
	Store     ports.GraphStore
	Index     ports.SimilarityIndex
	Extractor ports.ExtractionProvider
	Embedder  ports.EmbeddingProvider
	Ingestion *ingestion.Service
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDB opens the single-file database artifact
func ProvideDB(cfg *config.Config) (*sql.DB, error) {
	return sqlitestore.Open(cfg.DatabasePath)
}

// ProvideGraphStore creates the typed graph store
func ProvideGraphStore(db *sql.DB, logger *zap.Logger) ports.GraphStore {
	return sqlitestore.NewStore(db, logger)
}

// ProvideSimilarityIndex builds the in-memory vector index and rebuilds
// it from the persisted embeddings. This runs at every startup; it is the
// reconciliation path after a crash or restart.
func ProvideSimilarityIndex(ctx context.Context, store ports.GraphStore, logger *zap.Logger) (ports.SimilarityIndex, error) {
	index := similarity.NewIndex()
	embeddings, err := store.LoadEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	index.Rebuild(embeddings)
	logger.Info("similarity index rebuilt", zap.Int("embeddings", len(embeddings)))
	return index, nil
}

// ProvideExtractionProvider creates the LLM-backed extraction provider
func ProvideExtractionProvider(cfg *config.Config, logger *zap.Logger) ports.ExtractionProvider {
	return openaillm.NewExtractor(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, logger)
}

// ProvideEmbeddingProvider creates the embedding provider
func ProvideEmbeddingProvider(cfg *config.Config) ports.EmbeddingProvider {
	return openaillm.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
}

// ProvideIngestionConfig maps application config to pipeline knobs
func ProvideIngestionConfig(cfg *config.Config) ingestion.Config {
	return ingestion.Config{
		DedupThreshold:  cfg.DedupThreshold,
		LinkThreshold:   cfg.LinkThreshold,
		MaxLinks:        cfg.MaxLinks,
		TitleWords:      cfg.TitleWords,
		ProviderTimeout: cfg.ProviderTimeout,
	}
}

// ProvideIngestionService creates the ingestion orchestrator
func ProvideIngestionService(
	store ports.GraphStore,
	index ports.SimilarityIndex,
	extractor ports.ExtractionProvider,
	embedder ports.EmbeddingProvider,
	ingestCfg ingestion.Config,
	logger *zap.Logger,
) *ingestion.Service {
	return ingestion.NewService(store, index, extractor, embedder, ingestCfg, logger)
}
