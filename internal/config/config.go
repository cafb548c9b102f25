package config

import (
	"os"
	"strconv"
	"time"

	"formprobe/internal/errors"
)

// Config is the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	Executor  ExecutorConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	Enabled bool // persistence is optional: runs stay in memory without it
}

// AIConfig holds the optional LLM generation settings
type AIConfig struct {
	Enabled     bool
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ExecutorConfig holds run scheduling limits
type ExecutorConfig struct {
	MaxConcurrent int64
	RunTimeout    time.Duration
	QueueBound    int
}

// AnalyticsConfig holds aggregation settings
type AnalyticsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Executor: ExecutorConfig{
			MaxConcurrent: int64(getEnvIntOrDefault("MAX_CONCURRENT_RUNS", 4)),
			RunTimeout:    getEnvDurationOrDefault("RUN_TIMEOUT", 2*time.Minute),
			QueueBound:    getEnvIntOrDefault("RUN_QUEUE_BOUND", 0),
		},
		Analytics: AnalyticsConfig{
			Enabled: getEnvBoolOrDefault("ANALYTICS_ENABLED", true),
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	aiCfg, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	cfg.AI = *aiCfg

	if cfg.Executor.MaxConcurrent < 1 {
		return nil, errors.ConfigInvalid("MAX_CONCURRENT_RUNS must be at least 1")
	}
	if cfg.Executor.RunTimeout <= 0 {
		return nil, errors.ConfigInvalid("RUN_TIMEOUT must be positive")
	}
	return cfg, nil
}

func loadAIConfig() (*AIConfig, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		// the rule-based generator carries all traffic
		return &AIConfig{Enabled: false}, nil
	}
	return &AIConfig{
		Enabled:     true,
		APIKey:      key,
		Model:       getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:     getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.2),
		MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
		Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 30*time.Second),
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
