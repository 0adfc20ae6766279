package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/terra-clan/trainer-backend/internal/catalog"
	"github.com/terra-clan/trainer-backend/internal/models"
)

// Client is a Go SDK for the trainer API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new trainer client. A single call may take several
// minutes while the model answers, so the default timeout is generous.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (HTTP %d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// GenerateTask asks the service for a new task. Empty topic or language use
// the server defaults.
func (c *Client) GenerateTask(ctx context.Context, topic, language string) (*models.Task, error) {
	var req models.GenerateTaskRequest
	if topic != "" {
		req.Topic = &topic
	}
	if language != "" {
		req.Language = &language
	}

	var task models.Task
	if err := c.post(ctx, "/api/task/generate", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CheckAnswer submits userCode for review against task
func (c *Client) CheckAnswer(ctx context.Context, task *models.Task, userCode string) (*models.CheckResult, error) {
	var result models.CheckResult
	if err := c.post(ctx, "/api/answer/check", models.CheckAnswerRequest{
		Task:     task,
		UserCode: userCode,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSolution fetches a reference solution for task
func (c *Client) GetSolution(ctx context.Context, task *models.Task) (*models.SolutionResult, error) {
	var result models.SolutionResult
	if err := c.post(ctx, "/api/solution/get", models.GetSolutionRequest{Task: task}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTopics returns the topic catalog
func (c *Client) ListTopics(ctx context.Context) ([]*catalog.Topic, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/topics", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Topics []*catalog.Topic `json:"topics"`
		Total  int              `json:"total"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.Topics, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	return err
}

// Ready checks if the service and its dependencies are reachable
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/ready", nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, req, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp models.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}

	return respBody, nil
}
