package llm

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

	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/models"
)

// Completer sends chat messages to a model and returns its text reply
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// TransportError is returned when the completion endpoint cannot be reached
// or answers with a non-2xx status
type TransportError struct {
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to an OpenAI-compatible chat completion endpoint (LM Studio)
type Client struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a completion client from configuration
func NewClient(cfg config.LLMConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends messages and returns the first choice's content.
// A body that cannot be decoded, or has no content, yields an empty string.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	respBody, err := c.doRequest(ctx, http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		slog.Error("completion request failed",
			"model", c.model,
			"messages", len(messages),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", err
	}

	var resp completionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		slog.Warn("malformed completion response", "model", c.model, "error", err)
		return "", nil
	}

	content := ""
	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		content = *resp.Choices[0].Message.Content
	}

	slog.Info("completion received",
		"model", c.model,
		"messages", len(messages),
		"duration_ms", time.Since(start).Milliseconds(),
		"response_len", len(content),
	)

	return content, nil
}

// Ping checks that the endpoint answers its model listing
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/v1/models", nil)
	return err
}

// HealthCheck implements health.Checker
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

// doRequest performs an HTTP request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), 512),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
