// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings. AIProvider names the active text provider.
	AIProvider string

	OpenAIKey         string
	OpenAIModel       string
	OpenAIFastModel   string
	OpenAIImageModel  string
	OpenAISpeechModel string
	OpenAIBaseURL     string

	GeminiKey        string
	GeminiModel      string
	GeminiFastModel  string
	GeminiImageModel string
	GeminiBaseURL    string

	ClaudeKey       string
	ClaudeModel     string
	ClaudeFastModel string
	ClaudeBaseURL   string

	MistralKey       string
	MistralModel     string
	MistralFastModel string
	MistralBaseURL   string

	// AIRateLimit is the number of AI requests allowed per client IP per
	// minute. Zero disables the limiter.
	AIRateLimit int

	// S3-compatible object storage for brand assets.
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// BrandsFile optionally points at a YAML brand catalogue that replaces
	// the embedded default.
	BrandsFile string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "brandstudio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "brandstudio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),

		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIFastModel:   envOrDefault("OPENAI_MODEL_FAST", "gpt-4o-mini"),
		OpenAIImageModel:  envOrDefault("OPENAI_MODEL_IMAGE", "gpt-image-1"),
		OpenAISpeechModel: envOrDefault("OPENAI_MODEL_SPEECH", "tts-1"),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiFastModel:  envOrDefault("GEMINI_MODEL_FAST", "gemini-2.5-flash"),
		GeminiImageModel: os.Getenv("GEMINI_MODEL_IMAGE"),
		GeminiBaseURL:    envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		ClaudeKey:       os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:     envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeFastModel: envOrDefault("CLAUDE_MODEL_FAST", "claude-haiku-4-5"),
		ClaudeBaseURL:   envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),

		MistralKey:       os.Getenv("MISTRAL_API_KEY"),
		MistralModel:     envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralFastModel: envOrDefault("MISTRAL_MODEL_FAST", "mistral-small-latest"),
		MistralBaseURL:   envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "brandstudio-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "brandstudio-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		BrandsFile: os.Getenv("BRANDS_FILE"),
	}

	if v := os.Getenv("AI_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("AI_RATE_LIMIT must be a non-negative integer, got %q", v)
		}
		cfg.AIRateLimit = n
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasStorage reports whether S3 credentials are configured.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
