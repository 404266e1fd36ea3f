package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-news-agent/internal/adapter/ollama"
	"ai-news-agent/internal/adapter/repository"
	"ai-news-agent/internal/adapter/scrape"
	"ai-news-agent/internal/adapter/serpnews"
	"ai-news-agent/internal/domain"
	"ai-news-agent/internal/infra"
	"ai-news-agent/internal/infra/config"
	"ai-news-agent/internal/infra/httpclient"
	"ai-news-agent/internal/usecase"
	"ai-news-agent/internal/worker"
)

const (
	ollamaTimeout = 120 * time.Second
	searchTimeout = 30 * time.Second
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Storage
	Pool        *repository.LazyPool
	ArticleRepo domain.ArticleRepository
	JobRepo     domain.IngestJobRepository

	// Usecases
	IngestUsecase usecase.IngestNewsUsecase
	AskUsecase    usecase.AskQuestionUsecase

	// Worker
	Worker *worker.IngestWorker
}

// NewApplicationComponents wires all dependencies from config. The vector
// store pool is lazy; no database connection is attempted here.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) *ApplicationComponents {
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		pool, err := infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureSchema(ctx, pool, cfg.EmbeddingDimension); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}
	lazyPool := repository.NewLazyPool(cfg.DatabaseDSN(), cfg.DatabaseDSNWithoutPassword(), dial, log)

	articleRepo := repository.NewArticleRepository(lazyPool, log)
	jobRepo := repository.NewIngestJobRepository(lazyPool)

	// Shared HTTP clients with connection pooling
	ollamaHTTP := httpclient.NewPooledClient(ollamaTimeout)
	searchHTTP := httpclient.NewPooledClient(searchTimeout)

	prompts := ollama.NewNewsPromptBuilder()
	llmClient := ollama.NewChatClient(cfg.OllamaURL, cfg.LLMModel, prompts, log, ollamaHTTP)
	encoder := ollama.NewEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, log, ollamaHTTP)
	searcher := serpnews.NewClient(cfg.SerpAPIKey, cfg.SearchRatePerMin, log, searchHTTP)
	fetcher := scrape.NewFetcher(cfg.FetchTimeout, log)

	embeddings := usecase.NewEmbeddingGateway(encoder, cfg.EmbeddingDimension, log)
	enricher := usecase.NewEnrichArticlesUsecase(fetcher, llmClient, cfg.EnrichConcurrency, log)
	ingestUsecase := usecase.NewIngestNewsUsecase(
		domain.NewIntentExtractor(),
		searcher,
		enricher,
		embeddings,
		articleRepo,
		llmClient,
		log,
	)
	askUsecase := usecase.NewAskQuestionUsecase(
		embeddings,
		articleRepo,
		llmClient,
		cfg.RetrieveLimit,
		cfg.AnswerCacheSize,
		cfg.AnswerCacheTTL,
		log,
	)

	jobWorker := worker.NewIngestWorker(jobRepo, ingestUsecase, log)

	return &ApplicationComponents{
		Pool:          lazyPool,
		ArticleRepo:   articleRepo,
		JobRepo:       jobRepo,
		IngestUsecase: ingestUsecase,
		AskUsecase:    askUsecase,
		Worker:        jobWorker,
	}
}
