package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/trainer-backend/internal/catalog"
	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/health"
	"github.com/terra-clan/trainer-backend/internal/models"
)

// Trainer runs the exercise operations behind the API
type Trainer interface {
	GenerateTask(ctx context.Context, req models.GenerateTaskRequest) (*models.Task, error)
	CheckAnswer(ctx context.Context, task *models.Task, userCode string) (*models.CheckResult, error)
	GetSolution(ctx context.Context, task *models.Task) (*models.SolutionResult, error)
}

// TopicLister lists the topic catalog
type TopicLister interface {
	List() []*catalog.Topic
}

// Server represents the HTTP API server
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	trainer Trainer
	topics  TopicLister
	health  *health.Registry
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	trainer Trainer,
	topics TopicLister,
	registry *health.Registry,
) *Server {
	s := &Server{
		config:  cfg,
		trainer: trainer,
		topics:  topics,
		health:  registry,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(requestTimeout(s.config.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.config.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/task/generate", s.handleGenerateTask)
		r.Post("/answer/check", s.handleCheckAnswer)
		r.Post("/solution/get", s.handleGetSolution)
		r.Get("/topics", s.handleListTopics)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// requestTimeout bounds the request context. Handlers write the response
// themselves once the deadline passes.
func requestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
