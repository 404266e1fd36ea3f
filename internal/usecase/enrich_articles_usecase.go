package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ai-news-agent/internal/domain"
)

const (
	// minSnippetLength is the threshold below which an article body is
	// backfilled from its link before summarization.
	minSnippetLength = 100

	// fetchFailureSentinel feeds the summarizer when content backfill
	// fails; the article is still summarized rather than dropped.
	fetchFailureSentinel = "Content extraction failed"

	// summaryUnavailable stands in when summarization fails and the
	// article has no snippet to fall back to.
	summaryUnavailable = "Summary unavailable"
)

// EnrichArticlesUsecase produces a summary for every candidate article.
type EnrichArticlesUsecase interface {
	// Enrich returns one enriched article per candidate, in input order.
	// One article's failure never discards or blocks the others.
	Enrich(ctx context.Context, candidates []domain.CandidateArticle) []domain.EnrichedArticle
}

type enrichArticlesUsecase struct {
	fetcher     domain.ContentFetcher
	llmClient   domain.LLMClient
	concurrency int
	logger      *slog.Logger
}

// NewEnrichArticlesUsecase wires the enrichment pipeline. concurrency bounds
// the parallel fan-out across articles; 1 processes them sequentially.
func NewEnrichArticlesUsecase(
	fetcher domain.ContentFetcher,
	llmClient domain.LLMClient,
	concurrency int,
	logger *slog.Logger,
) EnrichArticlesUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &enrichArticlesUsecase{
		fetcher:     fetcher,
		llmClient:   llmClient,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (u *enrichArticlesUsecase) Enrich(ctx context.Context, candidates []domain.CandidateArticle) []domain.EnrichedArticle {
	enriched := make([]domain.EnrichedArticle, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			enriched[i] = u.enrichOne(gctx, candidate)
			return nil
		})
	}
	// Workers only report per-item outcomes through the slice.
	_ = g.Wait()

	u.logger.Info("articles_enriched", slog.Int("count", len(enriched)))
	return enriched
}

func (u *enrichArticlesUsecase) enrichOne(ctx context.Context, candidate domain.CandidateArticle) domain.EnrichedArticle {
	content := candidate.Snippet
	if len(content) < minSnippetLength {
		body, err := u.fetcher.Fetch(ctx, candidate.Link)
		if err != nil {
			u.logger.Warn("content_backfill_failed",
				slog.String("link", candidate.Link),
				slog.String("error", err.Error()),
			)
			body = fetchFailureSentinel
		}
		content = body
	}

	summary, err := u.llmClient.Summarize(ctx, content, candidate.Title)
	if err != nil {
		u.logger.Warn("summarization_failed",
			slog.String("title", truncate(candidate.Title, 50)),
			slog.String("error", err.Error()),
		)
		fallback := candidate.Snippet
		if fallback == "" {
			fallback = summaryUnavailable
		}
		return domain.EnrichedArticle{
			CandidateArticle: candidate,
			Summary:          fallback,
			Processed:        false,
		}
	}

	return domain.EnrichedArticle{
		CandidateArticle: candidate,
		Summary:          summary,
		Processed:        true,
	}
}
