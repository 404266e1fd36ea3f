package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ai-news-agent/internal/domain"
)

// ErrNoArticles reports that the search produced zero candidates. It is a
// user-facing "no results" condition, not a server error.
var ErrNoArticles = errors.New("no news articles found")

// IngestNewsInput carries the free-form query driving an ingest run.
type IngestNewsInput struct {
	Query string
}

// IngestNewsOutput is the result of a completed ingest run.
type IngestNewsOutput struct {
	Articles    []domain.EnrichedArticle
	TotalCount  int
	ProcessedAt time.Time
}

// TemporalDiagnosis pairs the rule-based extraction with the model's
// free-text reading of the same query.
type TemporalDiagnosis struct {
	Intent   domain.QueryIntent
	Analysis string
}

// IngestNewsUsecase runs the fetch → summarize → embed → store pipeline.
type IngestNewsUsecase interface {
	Execute(ctx context.Context, input IngestNewsInput) (*IngestNewsOutput, error)

	// DiagnoseTemporal is an independent diagnostic; its output feeds no
	// other step.
	DiagnoseTemporal(ctx context.Context, query string) (*TemporalDiagnosis, error)
}

type ingestNewsUsecase struct {
	extractor  *domain.IntentExtractor
	searcher   domain.NewsSearcher
	enricher   EnrichArticlesUsecase
	embeddings *EmbeddingGateway
	repo       domain.ArticleRepository
	llmClient  domain.LLMClient
	logger     *slog.Logger
}

// NewIngestNewsUsecase wires the ingest pipeline.
func NewIngestNewsUsecase(
	extractor *domain.IntentExtractor,
	searcher domain.NewsSearcher,
	enricher EnrichArticlesUsecase,
	embeddings *EmbeddingGateway,
	repo domain.ArticleRepository,
	llmClient domain.LLMClient,
	logger *slog.Logger,
) IngestNewsUsecase {
	return &ingestNewsUsecase{
		extractor:  extractor,
		searcher:   searcher,
		enricher:   enricher,
		embeddings: embeddings,
		repo:       repo,
		llmClient:  llmClient,
		logger:     logger,
	}
}

func (u *ingestNewsUsecase) Execute(ctx context.Context, input IngestNewsInput) (*IngestNewsOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	intent := u.extractor.Extract(input.Query)
	u.logger.Info("intent_extracted",
		slog.String("topic", intent.Topic),
		slog.Int("lookback_days", intent.LookbackDays),
		slog.Bool("target_date", intent.TargetDate != nil),
	)

	// A resolved date biases the provider toward that period; the hard
	// bound stays the lookback window.
	searchTopic := intent.Topic
	if intent.TargetDate != nil {
		searchTopic = searchTopic + " " + intent.TargetDate.Format("January 2, 2006")
	}

	candidates, err := u.searcher.Search(ctx, searchTopic, intent.LookbackDays)
	if err != nil {
		u.logger.Warn("news_search_degraded",
			slog.String("topic", truncate(searchTopic, 50)),
			slog.String("error", err.Error()),
		)
		candidates = nil
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoArticles, input.Query)
	}

	enriched := u.enricher.Enrich(ctx, candidates)

	documents := make([]string, len(enriched))
	for i, article := range enriched {
		documents[i] = article.DocumentText()
	}
	vectors := u.embeddings.EmbedBatch(ctx, documents)

	if err := u.repo.Store(ctx, enriched, vectors); err != nil {
		return nil, fmt.Errorf("failed to store articles: %w", err)
	}

	u.logger.Info("ingest_completed",
		slog.String("topic", intent.Topic),
		slog.Int("count", len(enriched)),
	)
	return &IngestNewsOutput{
		Articles:    enriched,
		TotalCount:  len(enriched),
		ProcessedAt: time.Now(),
	}, nil
}

func (u *ingestNewsUsecase) DiagnoseTemporal(ctx context.Context, query string) (*TemporalDiagnosis, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	analysis, err := u.llmClient.AnalyzeTemporalIntent(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze temporal intent: %w", err)
	}
	return &TemporalDiagnosis{
		Intent:   u.extractor.Extract(query),
		Analysis: analysis,
	}, nil
}
