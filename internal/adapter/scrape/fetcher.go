package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"ai-news-agent/internal/domain"
)

const userAgent = "ai-news-agent/1.0 (news summarizer)"

// minUsefulLength filters out boilerplate-only extractions.
const minUsefulLength = 100

// Fetcher retrieves readable article text via HTTP plus readability
// extraction.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a content fetcher with a bounded timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		logger: logger,
	}
}

// Fetch downloads the page and extracts its main text content. Extractions
// shorter than the usefulness threshold are reported as errors so callers
// fall back to their sentinel.
func (f *Fetcher) Fetch(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("content_fetch_failed",
			slog.String("url", articleURL),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to fetch %s: %w", articleURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch of %s returned status: %d", articleURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", articleURL, err)
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content from %s: %w", articleURL, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minUsefulLength {
		return "", fmt.Errorf("no extractable content at %s", articleURL)
	}

	f.logger.Info("content_fetched",
		slog.String("url", articleURL),
		slog.Int("length", len(text)),
	)
	return text, nil
}

var _ domain.ContentFetcher = (*Fetcher)(nil)
