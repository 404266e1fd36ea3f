package serpnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	}
}

func TestSearch_BuildsDateBoundedQuery(t *testing.T) {
	var gotQuery, gotTbm, gotNum string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotTbm = r.URL.Query().Get("tbm")
		gotNum = r.URL.Query().Get("num")
		_ = json.NewEncoder(w).Encode(map[string]any{"news_results": []any{}})
	}))
	defer server.Close()

	client := NewClient("test-key", 0, discardLogger(), server.Client(),
		WithBaseURL(server.URL), WithClock(fixedClock()))

	_, err := client.Search(context.Background(), "AI news", 7)
	require.NoError(t, err)
	assert.Equal(t, "AI news after:2025-08-13", gotQuery)
	assert.Equal(t, "nws", gotTbm)
	assert.Equal(t, "10", gotNum)
}

func TestSearch_TruncatesToTopFive(t *testing.T) {
	results := make([]map[string]any, 8)
	for i := range results {
		results[i] = map[string]any{
			"title": fmt.Sprintf("article %d", i),
			"link":  fmt.Sprintf("https://example.com/%d", i),
		}
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"news_results": results})
	}))
	defer server.Close()

	client := NewClient("test-key", 0, discardLogger(), server.Client(), WithBaseURL(server.URL))

	articles, err := client.Search(context.Background(), "AI news", 7)
	require.NoError(t, err)
	require.Len(t, articles, 5)
	assert.Equal(t, "article 0", articles[0].Title)
	assert.Equal(t, "article 4", articles[4].Title)
}

func TestSearch_SourceAsStringOrObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"news_results": [
			{"title": "a", "link": "https://example.com/a", "source": "Reuters"},
			{"title": "b", "link": "https://example.com/b", "source": {"name": "BBC"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", 0, discardLogger(), server.Client(), WithBaseURL(server.URL))

	articles, err := client.Search(context.Background(), "AI news", 7)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "BBC", articles[1].Source)
}

func TestSearch_NonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", 0, discardLogger(), server.Client(), WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "AI news", 7)
	assert.Error(t, err)
}

func TestSearch_LookbackBelowOneIsClamped(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{"news_results": []any{}})
	}))
	defer server.Close()

	client := NewClient("test-key", 0, discardLogger(), server.Client(),
		WithBaseURL(server.URL), WithClock(fixedClock()))

	_, err := client.Search(context.Background(), "AI news", 0)
	require.NoError(t, err)
	assert.Equal(t, "AI news after:2025-08-19", gotQuery)
}
