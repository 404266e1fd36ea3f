package domain

import "context"

// LLMClient defines the completion capabilities the pipeline needs from a
// language model. Each method runs with its own temperature: summaries are
// generated warm, answers cold.
type LLMClient interface {
	// Summarize produces a natural-language summary of an article body.
	Summarize(ctx context.Context, articleText, title string) (string, error)

	// Answer generates a grounded answer to a question given a context
	// block assembled from retrieved articles.
	Answer(ctx context.Context, question, contextBlock string) (string, error)

	// AnalyzeTemporalIntent returns a free-text analysis of the temporal
	// content of a query. Diagnostic only; its output is not consumed by
	// the ingest or answer flows.
	AnalyzeTemporalIntent(ctx context.Context, query string) (string, error)

	Version() string
}
