package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/trainer-backend/internal/catalog"
	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/health"
	"github.com/terra-clan/trainer-backend/internal/markedjson"
	"github.com/terra-clan/trainer-backend/internal/models"
)

type stubTrainer struct {
	task     *models.Task
	check    *models.CheckResult
	solution *models.SolutionResult
	err      error

	gotGenerate models.GenerateTaskRequest
	gotTask     *models.Task
	gotCode     string
}

func (s *stubTrainer) GenerateTask(_ context.Context, req models.GenerateTaskRequest) (*models.Task, error) {
	s.gotGenerate = req
	return s.task, s.err
}

func (s *stubTrainer) CheckAnswer(_ context.Context, task *models.Task, userCode string) (*models.CheckResult, error) {
	s.gotTask = task
	s.gotCode = userCode
	return s.check, s.err
}

func (s *stubTrainer) GetSolution(_ context.Context, task *models.Task) (*models.SolutionResult, error) {
	s.gotTask = task
	return s.solution, s.err
}

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// blockingTrainer waits for the request context to end
type blockingTrainer struct {
	stubTrainer
}

func (b *blockingTrainer) GenerateTask(ctx context.Context, _ models.GenerateTaskRequest) (*models.Task, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestServer(t *testing.T, trainer Trainer, registry *health.Registry) *httptest.Server {
	t.Helper()
	return newTimedServer(t, trainer, registry, time.Minute)
}

func newTimedServer(t *testing.T, trainer Trainer, registry *health.Registry, timeout time.Duration) *httptest.Server {
	t.Helper()

	topics := catalog.NewLoader()
	topics.Add(&catalog.Topic{ID: "strings", Name: "строки"})

	srv := NewServer(config.ServerConfig{
		CORSOrigin:     "http://localhost:5176",
		RequestTimeout: timeout,
	}, trainer, topics, registry)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func TestGenerateTaskReturnsBareTask(t *testing.T) {
	want := &models.Task{
		ID:          "t-1",
		Title:       "Reverse",
		Language:    models.LanguagePython,
		Difficulty:  models.DifficultyEasy,
		Statement:   "Reverse a string",
		StarterCode: "def solve(s):\n    pass",
	}
	trainer := &stubTrainer{task: want}
	ts := newTestServer(t, trainer, nil)

	resp, body := post(t, ts, "/api/task/generate", `{"topic":"строки","language":"Python"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got models.Task
	require.NoError(t, json.Unmarshal(body, &got))
	if diff := cmp.Diff(*want, got); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, trainer.gotGenerate.Topic)
	assert.Equal(t, "строки", *trainer.gotGenerate.Topic)
	require.NotNil(t, trainer.gotGenerate.Language)
	assert.Equal(t, "Python", *trainer.gotGenerate.Language)
}

func TestGenerateTaskEmptyBody(t *testing.T) {
	trainer := &stubTrainer{task: &models.Task{ID: "x"}}
	ts := newTestServer(t, trainer, nil)

	resp, _ := post(t, ts, "/api/task/generate", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, trainer.gotGenerate.Topic)
	assert.Nil(t, trainer.gotGenerate.Language)
}

func TestGenerateTaskCanonicalLanguage(t *testing.T) {
	trainer := &stubTrainer{task: &models.Task{ID: "x"}}
	ts := newTestServer(t, trainer, nil)

	resp, _ := post(t, ts, "/api/task/generate", `{"language":"python"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, trainer.gotGenerate.Language)
	assert.Equal(t, "Python", *trainer.gotGenerate.Language)
}

func TestGenerateTaskUnsupportedLanguage(t *testing.T) {
	trainer := &stubTrainer{task: &models.Task{ID: "x"}}
	ts := newTestServer(t, trainer, nil)

	resp, body := post(t, ts, "/api/task/generate", `{"language":"Go"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "invalid request", got.Error)
	assert.Contains(t, got.Details, `unsupported language "Go"`)
	assert.Nil(t, trainer.gotGenerate.Language, "trainer must not be called")
}

func TestRequestTimeout(t *testing.T) {
	ts := newTimedServer(t, &blockingTrainer{}, nil, 50*time.Millisecond)

	resp, body := post(t, ts, "/api/task/generate", `{}`)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

	var got models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Failed to generate task", got.Error)
	assert.Equal(t, context.DeadlineExceeded.Error(), got.Details)
}

func TestUpstreamErrors(t *testing.T) {
	task := `{"task":{"statement":"Sum two numbers","language":"JavaScript"}`

	tests := []struct {
		name    string
		path    string
		body    string
		message string
	}{
		{"generate", "/api/task/generate", `{}`, "Failed to generate task"},
		{"check", "/api/answer/check", task + `,"userCode":"x"}`, "Failed to check answer"},
		{"solution", "/api/solution/get", task + `}`, "Failed to get solution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := &stubTrainer{err: markedjson.ErrMarkerNotFound}
			ts := newTestServer(t, trainer, nil)

			resp, body := post(t, ts, tt.path, tt.body)
			assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

			var got models.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.message, got.Error)
			assert.Equal(t, markedjson.ErrMarkerNotFound.Error(), got.Details)
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	trainer := &stubTrainer{check: &models.CheckResult{
		Passed:    true,
		Score:     7.5,
		Summary:   "ok",
		Fixes:     []string{},
		EdgeCases: []string{},
	}}
	ts := newTestServer(t, trainer, nil)

	resp, body := post(t, ts, "/api/answer/check",
		`{"task":{"statement":"Sum","language":"JavaScript"},"userCode":"const a = 1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.CheckResult
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 7.5, got.Score)
	assert.Equal(t, "const a = 1", trainer.gotCode)
	assert.Equal(t, "Sum", trainer.gotTask.Statement)
}

func TestGetSolution(t *testing.T) {
	trainer := &stubTrainer{solution: &models.SolutionResult{Code: "return a + b"}}
	ts := newTestServer(t, trainer, nil)

	resp, body := post(t, ts, "/api/solution/get", `{"task":{"statement":"Sum","language":"python"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.SolutionResult
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "return a + b", got.Code)
	assert.Equal(t, models.LanguagePython, trainer.gotTask.Language)
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"generate malformed json", "/api/task/generate", `{"topic":`},
		{"check missing task", "/api/answer/check", `{"userCode":"x"}`},
		{"check missing statement", "/api/answer/check", `{"task":{"language":"Python"},"userCode":"x"}`},
		{"solution missing language", "/api/solution/get", `{"task":{"statement":"Sum"}}`},
		{"solution wrong type", "/api/solution/get", `{"task":"Sum"}`},
		{"check unsupported language", "/api/answer/check", `{"task":{"statement":"Sum","language":"Rust"},"userCode":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := &stubTrainer{err: errors.New("must not be called")}
			ts := newTestServer(t, trainer, nil)

			resp, body := post(t, ts, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got models.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "invalid request", got.Error)
			assert.NotEmpty(t, got.Details)
			assert.Nil(t, trainer.gotTask)
		})
	}
}

func TestListTopics(t *testing.T) {
	ts := newTestServer(t, &stubTrainer{}, nil)

	resp, err := http.Get(ts.URL + "/api/topics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Topics []catalog.Topic `json:"topics"`
		Total  int             `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "strings", got.Topics[0].ID)
}

func TestHealthAndReady(t *testing.T) {
	registry := health.NewRegistry()
	var down error
	registry.Register("llm", checkerFunc(func(context.Context) error { return down }))
	ts := newTestServer(t, &stubTrainer{}, registry)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down = errors.New("connection refused")
	resp, err = http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var got models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "llm: connection refused", got.Details)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	ts := newTestServer(t, &stubTrainer{}, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/task/generate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5176")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5176", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
