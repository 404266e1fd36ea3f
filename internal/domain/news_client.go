package domain

import "context"

// NewsSearcher fetches candidate articles for a topic. Implementations
// return an error instead of swallowing provider failures; callers decide
// whether to degrade to an empty result or propagate.
type NewsSearcher interface {
	// Search returns at most a provider-specific top-N of candidate
	// articles for the topic, bounded by a not-before date derived from
	// lookbackDays. The slice may be empty.
	Search(ctx context.Context, topic string, lookbackDays int) ([]CandidateArticle, error)
}

// ContentFetcher retrieves readable body text for an article URL within a
// bounded timeout.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
