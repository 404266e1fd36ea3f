package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ai-news-agent/internal/domain"
	"ai-news-agent/internal/usecase"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	jobTimeout          = 120 * time.Second
	initialBackoff      = 1 * time.Second
	maxBackoff          = 5 * time.Minute
)

// IngestWorker drains queued ingest jobs one at a time. A job left behind
// by a crashed worker stays pending and is picked up on the next poll.
type IngestWorker struct {
	jobRepo       domain.IngestJobRepository
	ingestUsecase usecase.IngestNewsUsecase
	logger        *slog.Logger
	stopChan      chan struct{}
	backoff       time.Duration
}

func NewIngestWorker(
	jobRepo domain.IngestJobRepository,
	ingestUsecase usecase.IngestNewsUsecase,
	logger *slog.Logger,
) *IngestWorker {
	return &IngestWorker{
		jobRepo:       jobRepo,
		ingestUsecase: ingestUsecase,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("starting ingest worker")
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("stopping ingest worker")
	close(w.stopChan)
}

func (w *IngestWorker) run() {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processNextJob()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(defaultPollInterval)
			}
		}
	}
}

func (w *IngestWorker) processNextJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	job, err := w.jobRepo.AcquireNextJob(ctx)
	if err != nil {
		w.logger.Error("failed to acquire next job", "error", err)
		return
	}
	if job == nil {
		return // No jobs
	}

	w.logger.Info("processing ingest job", "job_id", job.ID, "query", job.Query)

	_, processErr := w.ingestUsecase.Execute(ctx, usecase.IngestNewsInput{Query: job.Query})
	// An empty result set is a terminal outcome for the query, not an
	// infrastructure problem, so it must not trigger backoff.
	noArticles := errors.Is(processErr, usecase.ErrNoArticles)

	status := "completed"
	var errMsg *string
	if processErr != nil {
		status = "failed"
		msg := processErr.Error()
		errMsg = &msg
		if noArticles {
			w.backoff = 0
			w.logger.Info("job found no articles", "job_id", job.ID, "query", job.Query)
		} else {
			w.backoff = w.nextBackoff(w.backoff)
			w.logger.Warn("worker backing off", "job_id", job.ID, "backoff", w.backoff, "error", processErr)
		}
	} else {
		w.backoff = 0
		w.logger.Info("job completed", "job_id", job.ID)
	}

	if err := w.jobRepo.UpdateStatus(ctx, job.ID, status, errMsg); err != nil {
		w.logger.Error("failed to update job status", "job_id", job.ID, "error", err)
	}
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
