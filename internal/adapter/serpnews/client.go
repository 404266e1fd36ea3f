package serpnews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"ai-news-agent/internal/domain"
)

const (
	defaultBaseURL = "https://serpapi.com/search"

	// requestCount over-fetches so truncation to topN keeps the provider's
	// best hits even when some normalize poorly.
	requestCount = 10
	topN         = 5
)

// Client queries SerpAPI's Google News engine for candidate articles.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithClock injects the clock used to anchor the not-before date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a search client. requestsPerMinute bounds the outbound
// call rate; zero disables the limiter.
func NewClient(apiKey string, requestsPerMinute int, logger *slog.Logger, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  httpClient,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type newsResult struct {
	Title     string          `json:"title"`
	Snippet   string          `json:"snippet"`
	Link      string          `json:"link"`
	Source    json.RawMessage `json:"source"`
	Date      string          `json:"date"`
	Thumbnail string          `json:"thumbnail"`
}

type searchResponse struct {
	NewsResults []newsResult `json:"news_results"`
}

// Search fetches news hits for the topic bounded by a not-before date
// computed from lookbackDays, truncated to the top 5 in provider order.
// Failures surface as errors; callers choose whether to degrade.
func (c *Client) Search(ctx context.Context, topic string, lookbackDays int) ([]domain.CandidateArticle, error) {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	notBefore := c.now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
	params := url.Values{
		"engine":  {"google"},
		"q":       {fmt.Sprintf("%s after:%s", topic, notBefore)},
		"tbm":     {"nws"},
		"num":     {fmt.Sprintf("%d", requestCount)},
		"sort":    {"date"},
		"api_key": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("news_search_failed",
			slog.String("topic", truncate(topic, 50)),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("failed to call search provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := body.NewsResults
	if len(hits) > topN {
		hits = hits[:topN]
	}

	articles := make([]domain.CandidateArticle, 0, len(hits))
	for _, hit := range hits {
		articles = append(articles, domain.CandidateArticle{
			Title:       hit.Title,
			Snippet:     hit.Snippet,
			Link:        hit.Link,
			Source:      sourceName(hit.Source),
			PublishedAt: hit.Date,
			Thumbnail:   hit.Thumbnail,
		})
	}

	c.logger.Info("news_search_completed",
		slog.String("topic", truncate(topic, 50)),
		slog.Int("results", len(articles)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return articles, nil
}

// sourceName tolerates the provider returning source as either a bare
// string or an object with a name field.
func sourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ domain.NewsSearcher = (*Client)(nil)
