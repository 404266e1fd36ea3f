package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ai-news-agent/internal/domain"
)

const (
	summaryTemperature    = 0.7
	answerTemperature     = 0.3
	diagnosticTemperature = 0.1
	keepAliveSeconds      = 600
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string                 `json:"model"`
	Messages  []chatMessage          `json:"messages"`
	Stream    bool                   `json:"stream"`
	KeepAlive int                    `json:"keep_alive"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// PromptBuilder renders the text prompts the client sends per capability.
type PromptBuilder interface {
	SummaryPrompt(articleText, title string) string
	AnswerSystemPrompt() string
	AnswerPrompt(question, contextBlock string) string
	TemporalIntentPrompt(query string) string
}

// ChatClient speaks Ollama's chat endpoint and exposes the summarize /
// answer / diagnostic capabilities the pipeline needs.
type ChatClient struct {
	BaseURL string
	Model   string
	Client  *http.Client

	prompts PromptBuilder
	logger  *slog.Logger
}

// NewChatClient constructs a client for the given endpoint and model name.
func NewChatClient(baseURL, model string, prompts PromptBuilder, logger *slog.Logger, httpClient *http.Client) *ChatClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &ChatClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  httpClient,
		prompts: prompts,
		logger:  logger,
	}
}

// Summarize generates a summary for a news article body.
func (c *ChatClient) Summarize(ctx context.Context, articleText, title string) (string, error) {
	messages := []chatMessage{
		{Role: "user", Content: c.prompts.SummaryPrompt(articleText, title)},
	}
	text, err := c.chat(ctx, "summarize", messages, summaryTemperature)
	if err != nil {
		return "", err
	}
	c.logger.Info("summary_generated",
		slog.String("model", c.Model),
		slog.String("title", truncate(title, 50)),
	)
	return text, nil
}

// Answer generates a grounded answer from the assembled context block.
func (c *ChatClient) Answer(ctx context.Context, question, contextBlock string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: c.prompts.AnswerSystemPrompt()},
		{Role: "user", Content: c.prompts.AnswerPrompt(question, contextBlock)},
	}
	text, err := c.chat(ctx, "answer", messages, answerTemperature)
	if err != nil {
		return "", err
	}
	c.logger.Info("question_answered",
		slog.String("model", c.Model),
		slog.String("question", truncate(question, 50)),
	)
	return text, nil
}

// AnalyzeTemporalIntent asks the model for a free-text reading of the
// query's temporal content. Diagnostic only.
func (c *ChatClient) AnalyzeTemporalIntent(ctx context.Context, query string) (string, error) {
	messages := []chatMessage{
		{Role: "user", Content: c.prompts.TemporalIntentPrompt(query)},
	}
	return c.chat(ctx, "temporal_intent", messages, diagnosticTemperature)
}

// Version returns the wrapped model name.
func (c *ChatClient) Version() string {
	return c.Model
}

func (c *ChatClient) chat(ctx context.Context, op string, messages []chatMessage, temperature float64) (string, error) {
	start := time.Now()

	reqBody := chatRequest{
		Model:     c.Model,
		Messages:  messages,
		Stream:    false,
		KeepAlive: keepAliveSeconds,
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}
	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Error("chat_request_failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return "", fmt.Errorf("failed to call chat endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ domain.LLMClient = (*ChatClient)(nil)
