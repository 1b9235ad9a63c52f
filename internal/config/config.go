// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultModel is the Anthropic model used when CLAUDE_MODEL is not set.
const DefaultModel = "claude-3-haiku-20240307"

// DefaultOpenDataURL is the Nantes Métropole explore API root.
const DefaultOpenDataURL = "https://data.nantesmetropole.fr/api/explore/v2.1"

// Config holds all application configuration.
type Config struct {
	Port         string
	OpenDataURL  string
	AnthropicURL string
	APIKey       string
	Model        string
	DataTTL      time.Duration
	FeedLimit    int
	Debug        bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		OpenDataURL:  getEnv("OPENDATA_URL", DefaultOpenDataURL),
		AnthropicURL: getEnv("ANTHROPIC_URL", "https://api.anthropic.com"),
		APIKey:       getEnv("CLAUDE_API_KEY", ""),
		Model:        getEnv("CLAUDE_MODEL", DefaultModel),
		DataTTL:      time.Duration(getEnvInt("PARKING_DATA_TTL", 300)) * time.Second,
		FeedLimit:    getEnvInt("FEED_LIMIT", 100),
		Debug:        getEnvBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OpenDataURL == "" {
		return fmt.Errorf("OPENDATA_URL cannot be empty")
	}
	if c.AnthropicURL == "" {
		return fmt.Errorf("ANTHROPIC_URL cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("CLAUDE_MODEL cannot be empty")
	}
	if c.DataTTL <= 0 {
		return fmt.Errorf("PARKING_DATA_TTL must be > 0")
	}
	if c.FeedLimit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be > 0")
	}
	return nil
}

// AIEnabled reports whether an Anthropic API key is configured. Without a
// key the assistant answers from the local keyword search only.
func (c *Config) AIEnabled() bool {
	return c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
