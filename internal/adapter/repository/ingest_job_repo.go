package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ai-news-agent/internal/domain"
)

type ingestJobRepository struct {
	lazy *LazyPool
}

// NewIngestJobRepository creates the persistent ingest job queue.
func NewIngestJobRepository(lazy *LazyPool) domain.IngestJobRepository {
	return &ingestJobRepository{lazy: lazy}
}

func (r *ingestJobRepository) Enqueue(ctx context.Context, job *domain.IngestJob) error {
	pool, err := r.lazy.Get(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ingest_jobs (id, query, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = pool.Exec(ctx, query,
		job.ID,
		job.Query,
		job.Status,
		job.ErrorMessage,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (r *ingestJobRepository) AcquireNextJob(ctx context.Context) (*domain.IngestJob, error) {
	pool, err := r.lazy.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Claim the oldest pending job atomically so concurrent workers never
	// pick the same one.
	cteQuery := `
		WITH next_job AS (
			SELECT id
			FROM ingest_jobs
			WHERE status = 'new'
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE ingest_jobs
		SET status = 'processing', updated_at = $1
		FROM next_job
		WHERE ingest_jobs.id = next_job.id
		RETURNING ingest_jobs.id, ingest_jobs.query, ingest_jobs.status,
		          ingest_jobs.error_message, ingest_jobs.created_at, ingest_jobs.updated_at
	`

	var job domain.IngestJob
	err = pool.QueryRow(ctx, cteQuery, time.Now()).Scan(
		&job.ID,
		&job.Query,
		&job.Status,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to acquire next job: %w", err)
	}

	return &job, nil
}

func (r *ingestJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error {
	pool, err := r.lazy.Get(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE ingest_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := pool.Exec(ctx, query, status, errorMessage, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}
