package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for trainer-backend
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Retry   RetryConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Health  HealthConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host       string
	Port       int
	CORSOrigin string
	// RequestTimeout bounds a whole request, which may span three
	// sequential completion calls
	RequestTimeout time.Duration
}

// LLMConfig holds the completion endpoint configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// RetryConfig selects which operations regenerate from scratch after a
// failed repair
type RetryConfig struct {
	RegenerateTask     bool
	RegenerateCheck    bool
	RegenerateSolution bool
}

// RedisConfig holds the solution cache configuration.
// An empty Address disables the cache.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address is configured
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

// CatalogConfig holds topic catalog configuration
type CatalogConfig struct {
	Dir string
}

// HealthConfig holds the background dependency monitor configuration.
// A zero Interval disables the monitor.
type HealthConfig struct {
	Interval time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from a .env file (if present) and environment
// variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", 3000),
			CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5176"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Minute),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("LM_BASE_URL", "http://localhost:1234"),
			Model:       getEnv("LM_MODEL", "second-state/phi-3-mini-4k-instruct"),
			Temperature: getEnvAsFloat("LM_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("LM_MAX_TOKENS", 1200),
			Timeout:     getEnvAsDuration("LM_TIMEOUT", 180*time.Second),
		},
		Retry: RetryConfig{
			RegenerateTask:     getEnvAsBool("REGENERATE_TASK", true),
			RegenerateCheck:    getEnvAsBool("REGENERATE_CHECK", false),
			RegenerateSolution: getEnvAsBool("REGENERATE_SOLUTION", false),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_TTL", 24*time.Hour),
		},
		Catalog: CatalogConfig{
			Dir: getEnv("CATALOG_DIR", "./topics"),
		},
		Health: HealthConfig{
			Interval: getEnvAsDuration("HEALTH_INTERVAL", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.LLM.BaseURL == "" {
		return fmt.Errorf("LM_BASE_URL is required")
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("LM_MODEL is required")
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("invalid max tokens: %d", c.LLM.MaxTokens)
	}

	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("invalid completion timeout: %s", c.LLM.Timeout)
	}

	if c.Health.Interval < 0 {
		return fmt.Errorf("invalid health interval: %s", c.Health.Interval)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
