package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/terra-clan/trainer-backend/internal/models"
)

// SolutionCache stores reference solutions by task content.
// Implementations log their own failures; a miss is never an error.
type SolutionCache interface {
	GetSolution(ctx context.Context, task *models.Task) (*models.SolutionResult, bool)
	PutSolution(ctx context.Context, task *models.Task, solution *models.SolutionResult)
}

// Noop is a SolutionCache that stores nothing
type Noop struct{}

// GetSolution always misses
func (Noop) GetSolution(context.Context, *models.Task) (*models.SolutionResult, bool) {
	return nil, false
}

// PutSolution discards the solution
func (Noop) PutSolution(context.Context, *models.Task, *models.SolutionResult) {}

// solutionKeyFields are the task fields the solution prompt depends on
type solutionKeyFields struct {
	Language    models.Language       `json:"language"`
	Statement   string                `json:"statement"`
	Constraints []string              `json:"constraints"`
	TestCases   []models.TaskTestCase `json:"testCases"`
}

// SolutionKey derives a stable key from the parts of task that shape its
// solution prompt. Tasks differing only in id, title, examples or the case
// of their language share a key.
func SolutionKey(task *models.Task) string {
	fields := solutionKeyFields{
		Language:    task.Language,
		Statement:   task.Statement,
		Constraints: task.Constraints,
		TestCases:   task.TestCases,
	}
	if lang, ok := models.ParseLanguage(string(task.Language)); ok {
		fields.Language = lang
	}
	if len(fields.Constraints) == 0 {
		fields.Constraints = nil
	}
	if len(fields.TestCases) == 0 {
		fields.TestCases = nil
	}

	// marshaling a struct of strings cannot fail
	data, _ := json.Marshal(fields)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
