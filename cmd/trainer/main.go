package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/trainer-backend/internal/api"
	"github.com/terra-clan/trainer-backend/internal/cache"
	"github.com/terra-clan/trainer-backend/internal/catalog"
	"github.com/terra-clan/trainer-backend/internal/config"
	"github.com/terra-clan/trainer-backend/internal/health"
	"github.com/terra-clan/trainer-backend/internal/llm"
	"github.com/terra-clan/trainer-backend/internal/logging"
	"github.com/terra-clan/trainer-backend/internal/trainer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	slog.SetDefault(logging.New(cfg.Log, os.Stdout))

	slog.Info("starting trainer",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"lm_base_url", cfg.LLM.BaseURL,
		"lm_model", cfg.LLM.Model,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	registry := health.NewRegistry()

	completer := llm.NewClient(cfg.LLM)
	registry.Register("llm", completer)

	// Load topic catalog
	topics := catalog.NewLoader()
	if err := topics.LoadFromDir(cfg.Catalog.Dir); err != nil {
		slog.Warn("failed to load topics from dir", "dir", cfg.Catalog.Dir, "error", err)
	}

	opts := []trainer.Option{trainer.WithTopics(topics)}

	// Solution cache is optional
	var solutionCache *cache.RedisCache
	if cfg.Redis.Enabled() {
		solutionCache, err = cache.NewRedisCache(initCtx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "address", cfg.Redis.Address, "error", err)
			os.Exit(1)
		}
		registry.Register("redis", solutionCache)
		opts = append(opts, trainer.WithSolutionCache(solutionCache))
		slog.Info("solution cache enabled", "address", cfg.Redis.Address, "ttl", cfg.Redis.TTL)
	}

	service := trainer.NewService(completer, cfg.Retry, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start dependency monitor
	if cfg.Health.Interval > 0 {
		health.NewMonitor(registry, cfg.Health.Interval).Start(ctx)
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, service, topics, registry)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if solutionCache != nil {
		if err := solutionCache.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	slog.Info("trainer stopped")
}
