package newshttp

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ai-news-agent/internal/domain"
	"ai-news-agent/internal/usecase"
)

// Handler exposes the ingest and question-answering flows over HTTP.
type Handler struct {
	ingestUsecase usecase.IngestNewsUsecase
	askUsecase    usecase.AskQuestionUsecase
	jobRepo       domain.IngestJobRepository
	logger        *slog.Logger
}

func NewHandler(
	ingestUsecase usecase.IngestNewsUsecase,
	askUsecase usecase.AskQuestionUsecase,
	jobRepo domain.IngestJobRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		ingestUsecase: ingestUsecase,
		askUsecase:    askUsecase,
		jobRepo:       jobRepo,
		logger:        logger,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/news", h.FetchNews)
	api.POST("/questions", h.AskQuestion)
	api.GET("/health", h.Health)

	internal := e.Group("/internal")
	internal.POST("/ingest-jobs", h.EnqueueIngestJob)
	internal.POST("/diagnostics/temporal-intent", h.DiagnoseTemporalIntent)
}

// FetchNewsRequest is the body for POST /api/v1/news.
type FetchNewsRequest struct {
	Query string `json:"query"`
}

// ArticleView is the wire shape of one enriched article.
type ArticleView struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	Processed bool   `json:"processed"`
}

// FetchNewsResponse is the body for a successful ingest.
type FetchNewsResponse struct {
	Articles    []ArticleView `json:"articles"`
	TotalCount  int           `json:"total_count"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// FetchNews runs the full search, enrich, embed and store pipeline
// synchronously and returns the enriched articles.
func (h *Handler) FetchNews(c echo.Context) error {
	ctx := c.Request().Context()

	var req FetchNewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	output, err := h.ingestUsecase.Execute(ctx, usecase.IngestNewsInput{Query: req.Query})
	if err != nil {
		if errors.Is(err, usecase.ErrNoArticles) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		h.logger.Error("fetch_news_failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch news")
	}

	views := make([]ArticleView, len(output.Articles))
	for i, a := range output.Articles {
		views[i] = ArticleView{
			Title:     a.Title,
			Summary:   a.Summary,
			Link:      a.Link,
			Source:    a.Source,
			Date:      a.PublishedAt,
			Processed: a.Processed,
		}
	}

	return c.JSON(http.StatusOK, FetchNewsResponse{
		Articles:    views,
		TotalCount:  output.TotalCount,
		ProcessedAt: output.ProcessedAt,
	})
}

// AskQuestionRequest is the body for POST /api/v1/questions.
type AskQuestionRequest struct {
	Question string `json:"question"`
}

// AskQuestionResponse is the grounded answer with its sources. Sources are
// omitted entirely when the answer is not grounded in any records.
type AskQuestionResponse struct {
	Answer      string                   `json:"answer"`
	Sources     []domain.ArticleMetadata `json:"sources,omitempty"`
	ProcessedAt time.Time                `json:"processed_at"`
}

func (h *Handler) AskQuestion(c echo.Context) error {
	ctx := c.Request().Context()

	var req AskQuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	output, err := h.askUsecase.Execute(ctx, usecase.AskQuestionInput{Question: req.Question})
	if err != nil {
		h.logger.Error("ask_question_failed",
			slog.String("error", err.Error()),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to answer question")
	}

	return c.JSON(http.StatusOK, AskQuestionResponse{
		Answer:      output.Answer,
		Sources:     output.Sources,
		ProcessedAt: output.ProcessedAt,
	})
}

// EnqueueIngestJobRequest is the body for POST /internal/ingest-jobs.
type EnqueueIngestJobRequest struct {
	Query string `json:"query"`
}

// EnqueueIngestJobResponse acknowledges the queued job.
type EnqueueIngestJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// EnqueueIngestJob queues an ingest run for the background worker and
// returns immediately.
func (h *Handler) EnqueueIngestJob(c echo.Context) error {
	ctx := c.Request().Context()

	var req EnqueueIngestJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	now := time.Now()
	job := &domain.IngestJob{
		ID:        uuid.New(),
		Query:     req.Query,
		Status:    "new",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.jobRepo.Enqueue(ctx, job); err != nil {
		h.logger.Error("enqueue_ingest_job_failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to enqueue job")
	}

	return c.JSON(http.StatusAccepted, EnqueueIngestJobResponse{
		JobID:  job.ID.String(),
		Status: job.Status,
	})
}

// DiagnoseTemporalIntentRequest is the body for the diagnostics endpoint.
type DiagnoseTemporalIntentRequest struct {
	Query string `json:"query"`
}

// DiagnoseTemporalIntentResponse compares the rule-based extraction with
// the model's reading of the same query.
type DiagnoseTemporalIntentResponse struct {
	Query        string     `json:"query"`
	Topic        string     `json:"topic"`
	LookbackDays int        `json:"lookback_days"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	LLMAnalysis  string     `json:"llm_analysis"`
}

func (h *Handler) DiagnoseTemporalIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req DiagnoseTemporalIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	diagnosis, err := h.ingestUsecase.DiagnoseTemporal(ctx, req.Query)
	if err != nil {
		h.logger.Error("temporal_diagnosis_failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to analyze query")
	}

	return c.JSON(http.StatusOK, DiagnoseTemporalIntentResponse{
		Query:        req.Query,
		Topic:        diagnosis.Intent.Topic,
		LookbackDays: diagnosis.Intent.LookbackDays,
		TargetDate:   diagnosis.Intent.TargetDate,
		LLMAnalysis:  diagnosis.Analysis,
	})
}

// HealthResponse reports overall service liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "ai-news-agent",
	})
}
