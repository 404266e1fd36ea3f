package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-news-agent/internal/domain"
	"ai-news-agent/internal/usecase"
)

func newAskUsecase(
	encoder *MockVectorEncoder,
	repo *MockArticleRepository,
	llm *MockLLMClient,
	cacheSize int,
) usecase.AskQuestionUsecase {
	return usecase.NewAskQuestionUsecase(
		usecase.NewEmbeddingGateway(encoder, 3, testLogger()),
		repo,
		llm,
		3,
		cacheSize,
		time.Minute,
		testLogger(),
	)
}

func TestAsk_EmptyQuestionIsRejected(t *testing.T) {
	encoder := new(MockVectorEncoder)
	uc := newAskUsecase(encoder, new(MockArticleRepository), new(MockLLMClient), 0)

	_, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "  "})
	assert.Error(t, err)
	encoder.AssertNotCalled(t, "Encode")
}

func TestAsk_EmbeddingFailureIsHard(t *testing.T) {
	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return(nil, errors.New("model not loaded"))
	repo := new(MockArticleRepository)

	uc := newAskUsecase(encoder, repo, new(MockLLMClient), 0)

	_, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Search")
}

func TestAsk_EmptyRetrievalShortCircuits(t *testing.T) {
	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil)
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, []float32{1, 0, 0}, 3).
		Return([]domain.RetrievedRecord{}, nil)
	llm := new(MockLLMClient)

	uc := newAskUsecase(encoder, repo, llm, 0)

	output, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)
	assert.Equal(t, usecase.InsufficientInformationAnswer, output.Answer)
	assert.Empty(t, output.Sources)
	llm.AssertNotCalled(t, "Answer")
}

func TestAsk_SearchFailureDegradesToInsufficient(t *testing.T) {
	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil)
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrStoreUnavailable)
	llm := new(MockLLMClient)

	uc := newAskUsecase(encoder, repo, llm, 0)

	output, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)
	assert.Equal(t, usecase.InsufficientInformationAnswer, output.Answer)
	llm.AssertNotCalled(t, "Answer")
}

func TestAsk_AnswerGroundedInRetrievalOrder(t *testing.T) {
	records := []domain.RetrievedRecord{
		{
			Document: "one sum1",
			Metadata: domain.ArticleMetadata{Title: "one", Source: "Reuters", Link: "https://example.com/1"},
			Distance: 0.1,
		},
		{
			Document: "two sum2",
			Metadata: domain.ArticleMetadata{Title: "two", Source: "BBC", Link: "https://example.com/2"},
			Distance: 0.2,
		},
	}

	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil)
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, mock.Anything, 3).Return(records, nil)
	llm := new(MockLLMClient)
	llm.On("Answer", mock.Anything, "What happened?", mock.MatchedBy(func(block string) bool {
		// Most similar record comes first in the context block.
		one := "Title: one\nContent: one sum1\nSource: Reuters\n\n"
		two := "Title: two\nContent: two sum2\nSource: BBC\n\n"
		return block == one+two
	})).Return("Something happened.", nil)

	uc := newAskUsecase(encoder, repo, llm, 0)

	output, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)
	assert.Equal(t, "Something happened.", output.Answer)
	require.Len(t, output.Sources, 2)
	assert.Equal(t, "one", output.Sources[0].Title)
	assert.Equal(t, "two", output.Sources[1].Title)
}

func TestAsk_AnswerFailurePropagates(t *testing.T) {
	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil)
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RetrievedRecord{{Document: "d", Metadata: domain.ArticleMetadata{Title: "t"}}}, nil)
	llm := new(MockLLMClient)
	llm.On("Answer", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model overloaded"))

	uc := newAskUsecase(encoder, repo, llm, 0)

	_, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	assert.Error(t, err)
}

func TestAsk_AnswerIsCached(t *testing.T) {
	records := []domain.RetrievedRecord{{Document: "d", Metadata: domain.ArticleMetadata{Title: "t"}}}

	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil).Once()
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(records, nil).Once()
	llm := new(MockLLMClient)
	llm.On("Answer", mock.Anything, mock.Anything, mock.Anything).
		Return("Cached answer.", nil).Once()

	uc := newAskUsecase(encoder, repo, llm, 16)

	first, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)

	// Case and surrounding whitespace do not break the cache key.
	second, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "  what HAPPENED?  "})
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	encoder.AssertNumberOfCalls(t, "Encode", 1)
	llm.AssertNumberOfCalls(t, "Answer", 1)
}

func TestAsk_InsufficientAnswerIsNotCached(t *testing.T) {
	encoder := new(MockVectorEncoder)
	encoder.On("Encode", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0, 0}}, nil)
	repo := new(MockArticleRepository)
	repo.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RetrievedRecord{}, nil)

	uc := newAskUsecase(encoder, repo, new(MockLLMClient), 16)

	_, err := uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), usecase.AskQuestionInput{Question: "What happened?"})
	require.NoError(t, err)

	// Both calls hit the store; an empty index can fill up later.
	repo.AssertNumberOfCalls(t, "Search", 2)
}
