package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxOpenConns   int
	MaxIdleConns   int
	MigrationsPath string
}

type LLMConfig struct {
	OpenAIKey    string
	AnthropicKey string
	Provider     string // "openai" or "anthropic"
	TextModel    string
	VisionModel  string // must be vision-capable
	MaxTokens    int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	maxTokens, err := getEnvInt("LLM_MAX_TOKENS", 2048)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxOpenConns:   maxOpen,
			MaxIdleConns:   maxIdle,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		LLM: LLMConfig{
			OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
			Provider:     getEnv("LLM_PROVIDER", "openai"),
			TextModel:    getEnv("LLM_TEXT_MODEL", "gpt-4o-mini"),
			VisionModel:  getEnv("LLM_VISION_MODEL", "gpt-4o"),
			MaxTokens:    maxTokens,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the startup-fatal requirements: the store location
// and at least one provider credential must be configured.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.LLM.OpenAIKey == "" && c.LLM.AnthropicKey == "" {
		missing = append(missing, "OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
