package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/models"
)

const solutionKeyPrefix = "trainer:solution:"

// RedisCache implements SolutionCache on Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

func redisKey(task *models.Task) string {
	return solutionKeyPrefix + SolutionKey(task)
}

// GetSolution looks up a cached solution for task
func (c *RedisCache) GetSolution(ctx context.Context, task *models.Task) (*models.SolutionResult, bool) {
	key := redisKey(task)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("solution cache lookup failed", "key", key, "error", err)
		}
		return nil, false
	}

	var solution models.SolutionResult
	if err := json.Unmarshal(data, &solution); err != nil {
		slog.Warn("dropping corrupt cached solution", "key", key, "error", err)
		c.client.Del(ctx, key)
		return nil, false
	}

	return &solution, true
}

// PutSolution stores solution for task with the configured TTL
func (c *RedisCache) PutSolution(ctx context.Context, task *models.Task, solution *models.SolutionResult) {
	key := redisKey(task)

	data, err := json.Marshal(solution)
	if err != nil {
		slog.Warn("failed to encode solution for cache", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("failed to store solution in cache", "key", key, "error", err)
		return
	}

	slog.Debug("solution cached", "key", key, "ttl", c.ttl)
}

// HealthCheck verifies Redis connectivity
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
