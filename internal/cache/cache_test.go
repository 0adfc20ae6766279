package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/models"
)

func sampleTask() *models.Task {
	return &models.Task{
		ID:          "t1",
		Title:       "Сумма",
		Language:    models.LanguagePython,
		Statement:   "Сложите два числа.",
		Constraints: []string{"a, b < 10^9"},
		TestCases:   []models.TaskTestCase{{Input: "1 2", Expected: "3"}},
	}
}

func TestSolutionKey(t *testing.T) {
	base := sampleTask()
	key := SolutionKey(base)
	assert.Len(t, key, 64)
	assert.Equal(t, key, SolutionKey(sampleTask()))

	renamed := sampleTask()
	renamed.ID = "t2"
	renamed.Title = "Другое название"
	renamed.Examples = []models.TaskExample{{Input: "1 1", Output: "2"}}
	assert.Equal(t, key, SolutionKey(renamed), "id, title and examples do not affect the solution")

	changed := sampleTask()
	changed.Statement = "Перемножьте два числа."
	assert.NotEqual(t, key, SolutionKey(changed))

	otherLang := sampleTask()
	otherLang.Language = models.LanguageJavaScript
	assert.NotEqual(t, key, SolutionKey(otherLang))
}

func TestSolutionKeyEmptyListsMatchNil(t *testing.T) {
	a := &models.Task{Language: models.LanguagePython, Statement: "x"}
	b := &models.Task{Language: models.LanguagePython, Statement: "x", Constraints: []string{}, TestCases: []models.TaskTestCase{}}
	assert.Equal(t, SolutionKey(a), SolutionKey(b))
}

func TestSolutionKeyLanguageCase(t *testing.T) {
	canonical := sampleTask()
	lower := sampleTask()
	lower.Language = "python"

	assert.Equal(t, SolutionKey(canonical), SolutionKey(lower))
}

func TestRedisKeyPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(redisKey(sampleTask()), "trainer:solution:"))
}

func TestNoop(t *testing.T) {
	var c SolutionCache = Noop{}
	c.PutSolution(context.Background(), sampleTask(), &models.SolutionResult{Code: "x"})

	got, ok := c.GetSolution(context.Background(), sampleTask())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, config.RedisConfig{Address: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
}
