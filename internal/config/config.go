// Package config builds the process configuration once at startup from
// environment variables. Components receive the resulting struct and never
// read ambient environment state themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Provider settings
	TianAPIKey        string
	TianBaseURL       string
	MediastackAPIKey  string
	MediastackBaseURL string
	FetchLimit        int
	RequestTimeout    time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration

	// Delivery settings
	BarkTargets  []string
	BarkGroup    string
	BarkLevel    string // optional urgency flag, e.g. "timeSensitive"
	PushInterval time.Duration
	ChunkLimit   int

	// Translation settings
	TranslateBackend     string // "openai", "gemini" or "off"
	OpenAIAPIKey         string
	GeminiAPIKey         string
	TranslateModel       string
	TranslateInterval    time.Duration
	MaxTranslateRequests int // per run, 0 = unlimited

	// Dedup store settings
	StoreBackend string // "postgres" or "redis"
	DatabaseURL  string
	RedisURL     string
	RedisTTL     time.Duration

	// Report hosting (optional, enabled when endpoint is set)
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioPublicBase string

	// App settings
	TopicsConfigPath string
	RunDeadline      time.Duration
	Debug            bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		TianBaseURL:          "https://apis.tianapi.com",
		MediastackBaseURL:    "http://api.mediastack.com/v1",
		FetchLimit:           50,
		RequestTimeout:       10 * time.Second,
		RetryAttempts:        3,
		RetryDelay:           2 * time.Second,
		BarkGroup:            "每日新闻日报",
		PushInterval:         time.Second,
		ChunkLimit:           3800,
		TranslateBackend:     "off",
		TranslateModel:       "gpt-4o-mini",
		TranslateInterval:    time.Second,
		MaxTranslateRequests: 0,
		StoreBackend:         "postgres",
		RedisTTL:             14 * 24 * time.Hour,
		TopicsConfigPath:     "configs/topics.yaml",
		RunDeadline:          10 * time.Minute,
	}

	cfg.TianAPIKey = os.Getenv("TIAN_API_KEY")
	cfg.MediastackAPIKey = os.Getenv("MEDIASTACK_API_KEY")
	cfg.TianBaseURL = getEnvOrDefault("TIAN_BASE_URL", cfg.TianBaseURL)
	cfg.MediastackBaseURL = getEnvOrDefault("MEDIASTACK_BASE_URL", cfg.MediastackBaseURL)
	cfg.FetchLimit = getEnvIntOrDefault("FETCH_LIMIT", cfg.FetchLimit)
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)

	cfg.BarkTargets = splitAndTrim(os.Getenv("BARK_URL"))
	cfg.BarkGroup = getEnvOrDefault("BARK_GROUP", cfg.BarkGroup)
	cfg.BarkLevel = os.Getenv("BARK_LEVEL")
	cfg.PushInterval = getEnvDurationOrDefault("PUSH_INTERVAL", cfg.PushInterval)
	cfg.ChunkLimit = getEnvIntOrDefault("REPORT_CHUNK_LIMIT", cfg.ChunkLimit)

	cfg.TranslateBackend = getEnvOrDefault("TRANSLATE_BACKEND", cfg.TranslateBackend)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.TranslateModel = getEnvOrDefault("TRANSLATE_MODEL", defaultModel(cfg.TranslateBackend))
	cfg.TranslateInterval = getEnvDurationOrDefault("TRANSLATE_INTERVAL", cfg.TranslateInterval)
	cfg.MaxTranslateRequests = getEnvIntOrDefault("MAX_TRANSLATE_REQUESTS", cfg.MaxTranslateRequests)

	cfg.StoreBackend = getEnvOrDefault("STORE_BACKEND", cfg.StoreBackend)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisTTL = getEnvDurationOrDefault("REDIS_TTL", cfg.RedisTTL)

	cfg.MinioEndpoint = os.Getenv("MINIO_ENDPOINT")
	cfg.MinioAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.MinioSecretKey = os.Getenv("MINIO_SECRET_KEY")
	cfg.MinioBucket = getEnvOrDefault("MINIO_BUCKET", "reports")
	cfg.MinioPublicBase = os.Getenv("MINIO_PUBLIC_BASE")

	cfg.TopicsConfigPath = getEnvOrDefault("TOPICS_CONFIG_PATH", cfg.TopicsConfigPath)
	cfg.RunDeadline = getEnvDurationOrDefault("RUN_DEADLINE", cfg.RunDeadline)
	cfg.Debug = os.Getenv("DEBUG") == "true"

	return cfg, cfg.Validate()
}

// Validate reports the unrecoverable configuration errors that must abort
// the run before any topic is processed.
func (c *Config) Validate() error {
	if c.TianAPIKey == "" && c.MediastackAPIKey == "" {
		return fmt.Errorf("at least one provider key is required (TIAN_API_KEY or MEDIASTACK_API_KEY)")
	}
	if len(c.BarkTargets) == 0 {
		return fmt.Errorf("BARK_URL is required (comma-separated push targets)")
	}
	switch c.StoreBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_BACKEND=postgres")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be 'postgres' or 'redis'")
	}
	switch c.TranslateBackend {
	case "off":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for TRANSLATE_BACKEND=openai")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for TRANSLATE_BACKEND=gemini")
		}
	default:
		return fmt.Errorf("TRANSLATE_BACKEND must be 'openai', 'gemini' or 'off'")
	}
	if c.ChunkLimit <= 0 {
		return fmt.Errorf("REPORT_CHUNK_LIMIT must be positive")
	}
	return nil
}

// UploadEnabled reports whether the hosted-artifact variant is configured.
func (c *Config) UploadEnabled() bool {
	return c.MinioEndpoint != ""
}

func defaultModel(backend string) string {
	if backend == "gemini" {
		return "gemini-1.5-flash"
	}
	return "gpt-4o-mini"
}

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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimRight(strings.TrimSpace(part), "/")
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
