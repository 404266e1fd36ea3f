package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ai-news-agent/internal/domain"
)

// EmbeddingGateway converts text into fixed-dimension vectors. Single
// embedding failures are hard errors because a degraded query vector would
// silently corrupt retrieval; batch embedding isolates per-item failures
// into zero vectors so ingestion keeps its partial successes.
type EmbeddingGateway struct {
	encoder   domain.VectorEncoder
	dimension int
	logger    *slog.Logger
}

// NewEmbeddingGateway wraps an encoder with the system-wide dimension.
func NewEmbeddingGateway(encoder domain.VectorEncoder, dimension int, logger *slog.Logger) *EmbeddingGateway {
	return &EmbeddingGateway{
		encoder:   encoder,
		dimension: dimension,
		logger:    logger,
	}
}

// Dimension returns the configured embedding dimension.
func (g *EmbeddingGateway) Dimension() int {
	return g.dimension
}

// EmbedOne embeds a single text. Failures propagate to the caller.
func (g *EmbeddingGateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.encoder.Encode(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for one input", len(vectors))
	}
	if len(vectors[0]) != g.dimension {
		return nil, fmt.Errorf("encoder returned dimension %d, expected %d", len(vectors[0]), g.dimension)
	}
	return vectors[0], nil
}

// EmbedBatch embeds each text independently. A failing item becomes an
// all-zero vector of the configured dimension; the result always has the
// same length and order as the input.
func (g *EmbeddingGateway) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := g.EmbedOne(ctx, text)
		if err != nil {
			g.logger.Warn("batch_embed_item_failed",
				slog.Int("index", i),
				slog.String("text", truncate(text, 50)),
				slog.String("error", err.Error()),
			)
			vec = make([]float32, g.dimension)
		}
		vectors[i] = vec
	}
	return vectors
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
