// Package config reads the environment-provided configuration surface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider selects the completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Backend selects the persistence backend.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
)

// Config holds everything the process consumes from the environment.
type Config struct {
	Port string

	Provider        Provider
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Model           string
	MaxTokens       int
	LLMTimeout      time.Duration

	HistoryLimit int

	StorageBackend Backend
	DatabasePath   string
	DatabaseURL    string

	KnowledgePath string

	AllowedOrigins     []string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// Load reads the environment and applies defaults.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		Provider:        Provider(getEnv("LLM_PROVIDER", string(ProviderOpenAI))),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           os.Getenv("LLM_MODEL"),
		MaxTokens:       getIntEnv("MAX_TOKENS", 500),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 30*time.Second),

		HistoryLimit: getIntEnv("MAX_CONVERSATION_HISTORY", 20),

		StorageBackend: Backend(getEnv("STORAGE_BACKEND", string(BackendFile))),
		DatabasePath:   getEnv("DATABASE_PATH", "./data/chat.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		KnowledgePath: os.Getenv("KNOWLEDGE_PATH"),

		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: int64(getIntEnv("MAX_REQUEST_BODY_SIZE", 10*1024)),
	}

	return cfg
}

// Validate checks the combinations that cannot work at all. A missing API
// key is deliberately not fatal: the server starts and reports degraded
// health instead.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}

	switch c.StorageBackend {
	case BackendFile:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the file storage backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("MAX_CONVERSATION_HISTORY must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
