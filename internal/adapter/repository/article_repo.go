package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"ai-news-agent/internal/domain"
)

type articleRepository struct {
	lazy   *LazyPool
	logger *slog.Logger
}

// NewArticleRepository creates an ArticleRepository over a lazily
// initialized connection pool.
func NewArticleRepository(lazy *LazyPool, logger *slog.Logger) domain.ArticleRepository {
	return &articleRepository{lazy: lazy, logger: logger}
}

// recordID derives an id from the article link, its ordinal in the batch,
// and a per-batch nonce. Within one batch the derivation is deterministic;
// re-ingesting the same article in a later batch produces a new, distinct
// record instead of colliding with the primary key.
func recordID(batch uuid.UUID, link string, ordinal int) string {
	h := sha256.New()
	h.Write(batch[:])
	h.Write([]byte(link))
	sum := h.Sum(nil)
	return fmt.Sprintf("article_%s_%d", hex.EncodeToString(sum[:8]), ordinal)
}

func (r *articleRepository) Store(ctx context.Context, articles []domain.EnrichedArticle, embeddings [][]float32) error {
	if len(articles) != len(embeddings) {
		return fmt.Errorf("article/embedding count mismatch: %d != %d", len(articles), len(embeddings))
	}
	if len(articles) == 0 {
		return nil
	}

	pool, err := r.lazy.Get(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	batch := uuid.New()
	rows := make([][]interface{}, len(articles))
	for i, article := range articles {
		metadata, err := json.Marshal(domain.ArticleMetadata{
			Title:   article.Title,
			Link:    article.Link,
			Source:  article.Source,
			Date:    article.PublishedAt,
			Snippet: article.Snippet,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		rows[i] = []interface{}{
			recordID(batch, article.Link, i),
			article.DocumentText(),
			metadata,
			pgvector.NewVector(embeddings[i]),
			now,
		}
	}

	// A single CopyFrom keeps the batch all-or-nothing.
	_, err = pool.CopyFrom(
		ctx,
		pgx.Identifier{"news_articles"},
		[]string{"id", "document", "metadata", "embedding", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to store articles: %w", err)
	}

	r.logger.Info("articles_stored", slog.Int("count", len(articles)))
	return nil
}

func (r *articleRepository) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedRecord, error) {
	pool, err := r.lazy.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT document, metadata, embedding <=> $1 AS distance
		FROM news_articles
		ORDER BY embedding <=> $1 ASC
		LIMIT $2
	`
	rows, err := pool.Query(ctx, query, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var records []domain.RetrievedRecord
	for rows.Next() {
		var rec domain.RetrievedRecord
		var metadata []byte
		if err := rows.Scan(&rec.Document, &metadata, &rec.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	r.logger.Info("articles_retrieved", slog.Int("count", len(records)))
	return records, nil
}
