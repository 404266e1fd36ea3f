package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the article index and job queue tables if they do not
// exist. The embedding column width is fixed at the configured model
// dimension; every stored vector must have exactly this length.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, dimension int) error {
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS news_articles (
  id         text PRIMARY KEY,
  document   text NOT NULL,
  metadata   jsonb NOT NULL,
  embedding  vector(%d) NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS news_articles_embedding_idx
  ON news_articles USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);

CREATE TABLE IF NOT EXISTS ingest_jobs (
  id            uuid PRIMARY KEY,
  query         text NOT NULL,
  status        text NOT NULL,
  error_message text,
  created_at    timestamptz NOT NULL,
  updated_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS ingest_jobs_status_idx ON ingest_jobs (status, created_at);
`, dimension)

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
