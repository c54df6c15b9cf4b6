// Package config provides application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port  string
	Debug bool

	// SecretKey signs the browser session that remembers the engine choice.
	SecretKey string

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	DefaultEngine string

	TelegramToken string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		Debug:         getEnvBool("DEBUG", false),
		SecretKey:     getEnv("SECRET_KEY", "dev-secret-change-me"),
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		DefaultEngine: getEnv("DEFAULT_ENGINE", "gemini"),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields every binary needs. The Telegram token is
// checked by cmd/bot only.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	switch c.DefaultEngine {
	case "gemini":
	case "gpt", "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("DEFAULT_ENGINE=%s but OPENAI_API_KEY is not set", c.DefaultEngine)
		}
	default:
		return fmt.Errorf("unknown DEFAULT_ENGINE %q (use gemini or gpt)", c.DefaultEngine)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
