package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"ai-news-agent/internal/domain"
)

// --- Mocks ---

type MockVectorEncoder struct {
	mock.Mock
}

func (m *MockVectorEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockVectorEncoder) Version() string {
	return "mock-encoder"
}

type MockContentFetcher struct {
	mock.Mock
}

func (m *MockContentFetcher) Fetch(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Summarize(ctx context.Context, articleText, title string) (string, error) {
	args := m.Called(ctx, articleText, title)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Answer(ctx context.Context, question, contextBlock string) (string, error) {
	args := m.Called(ctx, question, contextBlock)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) AnalyzeTemporalIntent(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Version() string {
	return "mock-llm"
}

type MockNewsSearcher struct {
	mock.Mock
}

func (m *MockNewsSearcher) Search(ctx context.Context, topic string, lookbackDays int) ([]domain.CandidateArticle, error) {
	args := m.Called(ctx, topic, lookbackDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateArticle), args.Error(1)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Store(ctx context.Context, articles []domain.EnrichedArticle, embeddings [][]float32) error {
	args := m.Called(ctx, articles, embeddings)
	return args.Error(0)
}

func (m *MockArticleRepository) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedRecord, error) {
	args := m.Called(ctx, queryVector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedRecord), args.Error(1)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, candidates []domain.CandidateArticle) []domain.EnrichedArticle {
	args := m.Called(ctx, candidates)
	return args.Get(0).([]domain.EnrichedArticle)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
