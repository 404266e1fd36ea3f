package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"ai-news-agent/internal/domain"
)

// InsufficientInformationAnswer is returned when retrieval finds nothing;
// the language model is never consulted in that case.
const InsufficientInformationAnswer = "I don't have enough information to answer your question. Please fetch some news first."

// AskQuestionInput carries the user's question.
type AskQuestionInput struct {
	Question string
}

// AskQuestionOutput is the grounded answer plus its sources in retrieval
// order (most similar first).
type AskQuestionOutput struct {
	Answer      string
	Sources     []domain.ArticleMetadata
	ProcessedAt time.Time
}

// AskQuestionUsecase answers questions over the stored article index.
type AskQuestionUsecase interface {
	Execute(ctx context.Context, input AskQuestionInput) (*AskQuestionOutput, error)
}

type askQuestionUsecase struct {
	embeddings    *EmbeddingGateway
	repo          domain.ArticleRepository
	llmClient     domain.LLMClient
	retrieveLimit int
	cache         *expirable.LRU[string, *AskQuestionOutput]
	logger        *slog.Logger
}

// NewAskQuestionUsecase wires the answer flow. cacheSize 0 disables answer
// memoization.
func NewAskQuestionUsecase(
	embeddings *EmbeddingGateway,
	repo domain.ArticleRepository,
	llmClient domain.LLMClient,
	retrieveLimit int,
	cacheSize int,
	cacheTTL time.Duration,
	logger *slog.Logger,
) AskQuestionUsecase {
	var cache *expirable.LRU[string, *AskQuestionOutput]
	if cacheSize > 0 {
		cache = expirable.NewLRU[string, *AskQuestionOutput](cacheSize, nil, cacheTTL)
	}
	return &askQuestionUsecase{
		embeddings:    embeddings,
		repo:          repo,
		llmClient:     llmClient,
		retrieveLimit: retrieveLimit,
		cache:         cache,
		logger:        logger,
	}
}

func (u *askQuestionUsecase) Execute(ctx context.Context, input AskQuestionInput) (*AskQuestionOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	cacheKey := strings.ToLower(question)
	if u.cache != nil {
		if cached, ok := u.cache.Get(cacheKey); ok {
			u.logger.Info("answer_cache_hit", slog.String("question", truncate(question, 50)))
			return cached, nil
		}
	}

	// A degraded query vector would silently rank wrong answers, so this
	// failure is always hard.
	queryVector, err := u.embeddings.EmbedOne(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	records, err := u.repo.Search(ctx, queryVector, u.retrieveLimit)
	if err != nil {
		u.logger.Warn("retrieval_degraded",
			slog.String("question", truncate(question, 50)),
			slog.String("error", err.Error()),
		)
		records = nil
	}
	if len(records) == 0 {
		return &AskQuestionOutput{
			Answer:      InsufficientInformationAnswer,
			ProcessedAt: time.Now(),
		}, nil
	}

	answer, err := u.llmClient.Answer(ctx, question, buildContextBlock(records))
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]domain.ArticleMetadata, len(records))
	for i, rec := range records {
		sources[i] = rec.Metadata
	}

	output := &AskQuestionOutput{
		Answer:      answer,
		Sources:     sources,
		ProcessedAt: time.Now(),
	}
	if u.cache != nil {
		u.cache.Add(cacheKey, output)
	}
	return output, nil
}

// buildContextBlock concatenates the retrieved records in retrieval order,
// most similar first.
func buildContextBlock(records []domain.RetrievedRecord) string {
	var sb strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&sb, "Title: %s\n", rec.Metadata.Title)
		fmt.Fprintf(&sb, "Content: %s\n", rec.Document)
		fmt.Fprintf(&sb, "Source: %s\n\n", rec.Metadata.Source)
	}
	return sb.String()
}
