// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// ConfigError indicates a missing or invalid configuration value. It is
// fatal and surfaces before any provider call is made.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigError creates a ConfigError for the given key.
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// Config holds process-level settings.
type Config struct {
	OpenAIAPIKey  string
	GoogleAPIKey  string
	WorkflowsDir  string
	AssetsDir     string
	FFmpegPath    string
	LogLevel      string
	DefaultModel  string
	MCPServerURLs map[string]string
}

// Load reads configuration from environment variables, applying defaults
// for local paths.
func Load() *Config {
	return &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		WorkflowsDir: envOr("WORKFLOWS_DIR", "data/workflows"),
		AssetsDir:    envOr("ASSETS_DIR", "public/assets/generated"),
		FFmpegPath:   envOr("FFMPEG_PATH", "ffmpeg"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		DefaultModel: envOr("DEFAULT_MODEL", "gpt-4o"),
	}
}

// RequireOpenAI returns a ConfigError when the OpenAI API key is unset.
func (c *Config) RequireOpenAI() error {
	if c.OpenAIAPIKey == "" {
		return NewConfigError("OPENAI_API_KEY", "not set")
	}
	return nil
}

// RequireGoogle returns a ConfigError when the Google API key is unset.
func (c *Config) RequireGoogle() error {
	if c.GoogleAPIKey == "" {
		return NewConfigError("GOOGLE_API_KEY", "not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
