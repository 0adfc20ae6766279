// Package trainer implements the three exercise operations on top of the
// completion pipeline: task generation, answer checking and solution
// retrieval.
package trainer

import (
	"context"
	"log/slog"

	"github.com/terra-clan/trainer-backend/internal/cache"
	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/llm"
	"github.com/terra-clan/trainer-backend/internal/models"
	"github.com/terra-clan/trainer-backend/internal/pipeline"
)

const (
	DefaultTopic    = "алгоритмы/строки/массивы"
	DefaultLanguage = "JavaScript"
)

// TopicResolver maps a catalog topic id to the name used in prompts
type TopicResolver interface {
	ResolveTopic(id string) (string, bool)
}

// Service runs the exercise operations
type Service struct {
	pipeline *pipeline.Pipeline
	retry    config.RetryConfig
	topics   TopicResolver
	cache    cache.SolutionCache
}

// Option configures the service
type Option func(*Service)

// WithTopics resolves catalog topic ids in generation requests
func WithTopics(topics TopicResolver) Option {
	return func(s *Service) {
		s.topics = topics
	}
}

// WithSolutionCache serves repeated solution requests from c
func WithSolutionCache(c cache.SolutionCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a trainer service
func NewService(completer llm.Completer, retry config.RetryConfig, opts ...Option) *Service {
	s := &Service{
		pipeline: pipeline.New(completer),
		retry:    retry,
		cache:    cache.Noop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GenerateTask produces a new practice task. Absent topic and language fall
// back to DefaultTopic and DefaultLanguage; an unsupported language fails
// without calling the model.
func (s *Service) GenerateTask(ctx context.Context, req models.GenerateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	topic := DefaultTopic
	if req.Topic != nil {
		topic = *req.Topic
	}
	language := DefaultLanguage
	if req.Language != nil {
		language = *req.Language
	}

	if s.topics != nil {
		if name, ok := s.topics.ResolveTopic(topic); ok {
			topic = name
		}
	}

	slog.Info("generating task", "topic", topic, "language", language)

	return pipeline.Run[models.Task](ctx, s.pipeline, "generate_task",
		generationMessages(topic, language),
		pipeline.Policy{Regenerate: s.retry.RegenerateTask},
	)
}

// CheckAnswer asks the model to reason about userCode against task
func (s *Service) CheckAnswer(ctx context.Context, task *models.Task, userCode string) (*models.CheckResult, error) {
	slog.Info("checking answer", "task_id", task.ID, "language", task.Language, "code_len", len(userCode))

	return pipeline.Run[models.CheckResult](ctx, s.pipeline, "check_answer",
		checkMessages(task, userCode),
		pipeline.Policy{Regenerate: s.retry.RegenerateCheck},
	)
}

// GetSolution returns a reference solution for task
func (s *Service) GetSolution(ctx context.Context, task *models.Task) (*models.SolutionResult, error) {
	if cached, ok := s.cache.GetSolution(ctx, task); ok {
		slog.Info("solution served from cache", "task_id", task.ID)
		return cached, nil
	}

	slog.Info("retrieving solution", "task_id", task.ID, "language", task.Language)

	solution, err := pipeline.Run[models.SolutionResult](ctx, s.pipeline, "get_solution",
		solutionMessages(task),
		pipeline.Policy{Regenerate: s.retry.RegenerateSolution},
	)
	if err != nil {
		return nil, err
	}

	s.cache.PutSolution(ctx, task, solution)
	return solution, nil
}
