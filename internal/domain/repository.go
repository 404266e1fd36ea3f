package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStoreUnavailable reports that the vector store connection could not be
// established. It wraps the underlying dial error.
var ErrStoreUnavailable = errors.New("vector store unavailable")

// ArticleRepository persists enriched articles with their embeddings and
// serves nearest-neighbour queries over them. Records are write-once: a
// later ingest of the same article appends a new record.
type ArticleRepository interface {
	// Store appends articles and their embeddings in one batched,
	// all-or-nothing call. len(articles) must equal len(embeddings).
	Store(ctx context.Context, articles []EnrichedArticle, embeddings [][]float32) error

	// Search returns up to limit records ordered by ascending cosine
	// distance to the query vector.
	Search(ctx context.Context, queryVector []float32, limit int) ([]RetrievedRecord, error)
}

// IngestJob is a queued asynchronous ingest request.
type IngestJob struct {
	ID           uuid.UUID
	Query        string
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IngestJobRepository is the persistent queue behind the background ingest
// worker.
type IngestJobRepository interface {
	Enqueue(ctx context.Context, job *IngestJob) error

	// AcquireNextJob atomically claims the oldest pending job, or returns
	// nil, nil when the queue is empty.
	AcquireNextJob(ctx context.Context) (*IngestJob, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
}
