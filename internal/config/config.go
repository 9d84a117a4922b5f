// Package config loads settings for the example commands from the
// environment (optionally a .env file) and an optional YAML settings
// file for the Gemini agent.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Env holds the environment configuration shared by the commands. The
// crawlerverse API key itself is resolved by the client library.
type Env struct {
	BaseURL      string `env:"CRAWLERVERSE_BASE_URL"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	ModelID      string `env:"MODEL_ID"`
	GameID       string `env:"GAME_ID"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Env, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// AgentSettings tune the Gemini agent. All fields are optional.
type AgentSettings struct {
	Model             string  `yaml:"model"`
	Temperature       float32 `yaml:"temperature"`
	SystemPrompt      string  `yaml:"system_prompt"`
	MaxInvalidActions int     `yaml:"max_invalid_actions"`
}

// DefaultAgentSettings returns the settings used when no file is given.
func DefaultAgentSettings() AgentSettings {
	return AgentSettings{
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
	}
}

// LoadAgentSettings reads a YAML settings file, filling unset fields with
// defaults. An empty path returns the defaults.
func LoadAgentSettings(path string) (AgentSettings, error) {
	settings := DefaultAgentSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse agent settings: %w", err)
	}
	if settings.Model == "" {
		settings.Model = "gemini-2.5-flash"
	}
	return settings, nil
}
