package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/terra-clan/trainer-backend/internal/models"
	"github.com/terra-clan/trainer-backend/internal/pipeline"
)

const maxBodyBytes = 1 << 20

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// respondUpstreamError reports a failed trainer operation as 502, or as 504
// when the request deadline passed
func respondUpstreamError(w http.ResponseWriter, r *http.Request, message string, err error) {
	attrs := []any{
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	}
	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		slog.Warn(strings.ToLower(message)+": request timed out", attrs...)
		respondError(w, http.StatusGatewayTimeout, message, err.Error())
		return
	}
	if pipeline.IsDecodeError(err) {
		slog.Warn(strings.ToLower(message)+": unusable model output", attrs...)
	} else {
		slog.Error(strings.ToLower(message), attrs...)
	}
	respondError(w, http.StatusBadGateway, message, err.Error())
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		failures := s.health.CheckAll(r.Context())
		if len(failures) > 0 {
			parts := make([]string, 0, len(failures))
			for _, name := range s.health.List() {
				if err, ok := failures[name]; ok {
					parts = append(parts, fmt.Sprintf("%s: %v", name, err))
				}
			}
			respondError(w, http.StatusServiceUnavailable, "service not ready", strings.Join(parts, "; "))
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// Trainer handlers

func (s *Server) handleGenerateTask(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := s.trainer.GenerateTask(r.Context(), req)
	if err != nil {
		respondUpstreamError(w, r, "Failed to generate task", err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.CheckAnswerRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if req.Task == nil {
		respondError(w, http.StatusBadRequest, "invalid request", "task is required")
		return
	}
	if err := req.Task.ValidateInput(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := s.trainer.CheckAnswer(r.Context(), req.Task, req.UserCode)
	if err != nil {
		respondUpstreamError(w, r, "Failed to check answer", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetSolution(w http.ResponseWriter, r *http.Request) {
	var req models.GetSolutionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if req.Task == nil {
		respondError(w, http.StatusBadRequest, "invalid request", "task is required")
		return
	}
	if err := req.Task.ValidateInput(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := s.trainer.GetSolution(r.Context(), req.Task)
	if err != nil {
		respondUpstreamError(w, r, "Failed to get solution", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Catalog handlers

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics := s.topics.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"topics": topics,
		"total":  len(topics),
	})
}
