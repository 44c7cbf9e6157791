package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Port            string `mapstructure:"port"`
	LogLevel        string `mapstructure:"log_level"`
	APIKeyHash      string `mapstructure:"api_key_hash"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string `mapstructure:"openai_base_url"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	YouTubeAPIKey   string `mapstructure:"youtube_api_key"`
	PlaylistWorkers int    `mapstructure:"playlist_workers"`
}

// Load reads configuration from environment variables
// Supports _FILE suffix pattern for reading secrets from files (Docker Swarm style)
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("port", "4600")
	v.SetDefault("log_level", "info")
	v.SetDefault("playlist_workers", 3)

	// Bind environment variables
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Map of config keys to their env var names
	envBindings := map[string]string{
		"port":              "PORT",
		"log_level":         "LOG_LEVEL",
		"api_key_hash":      "API_KEY_HASH",
		"anthropic_api_key": "ANTHROPIC_API_KEY",
		"openai_api_key":    "OPENAI_API_KEY",
		"openai_base_url":   "OPENAI_BASE_URL",
		"gemini_api_key":    "GEMINI_API_KEY",
		"youtube_api_key":   "YOUTUBE_API_KEY",
		"playlist_workers":  "PLAYLIST_WORKERS",
	}

	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", envVar, err)
		}
	}

	cfg := &Config{}

	// Load each config value, checking for _FILE variants first
	cfg.Port = getConfigValue(v, "port", "PORT")
	cfg.LogLevel = getConfigValue(v, "log_level", "LOG_LEVEL")
	cfg.APIKeyHash = getConfigValue(v, "api_key_hash", "API_KEY_HASH")
	cfg.AnthropicAPIKey = getConfigValue(v, "anthropic_api_key", "ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = getConfigValue(v, "openai_api_key", "OPENAI_API_KEY")
	cfg.OpenAIBaseURL = getConfigValue(v, "openai_base_url", "OPENAI_BASE_URL")
	cfg.GeminiAPIKey = getConfigValue(v, "gemini_api_key", "GEMINI_API_KEY")
	cfg.YouTubeAPIKey = getConfigValue(v, "youtube_api_key", "YOUTUBE_API_KEY")
	cfg.PlaylistWorkers = v.GetInt("playlist_workers")

	// Provider API keys are optional: callers may supply a credential per
	// request instead of configuring one process-wide.
	return cfg, nil
}

// getConfigValue checks for FOO_FILE env var first, reads from file if exists,
// otherwise falls back to FOO env var
func getConfigValue(v *viper.Viper, key, envVar string) string {
	// Check for _FILE variant first
	fileEnvVar := envVar + "_FILE"
	if filePath := os.Getenv(fileEnvVar); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	// Fall back to regular env var via viper
	return v.GetString(key)
}
