package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the API server reads from the environment.
// Values are loaded once in main and passed down explicitly; nothing in the
// codebase reads os.Getenv after startup.
type Config struct {
	Mode string // "dev" or "prod"
	Port string

	// Document store. When FirestoreProject is empty the server falls back
	// to the in-memory store (local development only).
	FirestoreProject string

	// Session token verification. The identity provider that issues tokens
	// is external; we only verify.
	JWTSecret string

	// Optional read cache. Empty RedisAddr disables caching entirely.
	RedisAddr string
	CacheTTL  time.Duration

	OpenAI OpenAIConfig
}

// OpenAIConfig configures the insight-generation collaborator.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Load reads the environment and applies defaults. It fails only on values
// that are required and have no safe default (the JWT secret and the
// OpenAI key).
func Load() (Config, error) {
	cfg := Config{
		Mode:             getEnv("APP_MODE", "dev"),
		Port:             getEnv("PORT", "8080"),
		FirestoreProject: os.Getenv("FIRESTORE_PROJECT_ID"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		CacheTTL:         getEnvDuration("CACHE_TTL_SECONDS", 60*time.Second),
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			BaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 600),
			Timeout:   getEnvDuration("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}
