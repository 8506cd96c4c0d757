// Package config loads process configuration from the environment, with a
// best-effort .env file for local runs. Missing required credentials are
// reported as errors so startup can fail before any connection is made.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sentibot/pkg/masa"
)

// Client is the chat client configuration. At least one model credential
// must be present.
type Client struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL"`

	Temperature   float64 `envconfig:"SENTIBOT_TEMPERATURE" default:"0.4"`
	MaxToolRounds int     `envconfig:"SENTIBOT_MAX_TOOL_ROUNDS" default:"8"`
}

// LoadClient reads the client configuration.
func LoadClient() (Client, error) {
	_ = godotenv.Load()

	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return Client{}, errors.New("no model credential: set GEMINI_API_KEY or OPENAI_API_KEY")
	}
	return cfg, nil
}

// Server is the tool server configuration.
type Server struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	Masa masa.Config
}

// LoadServer reads the server configuration. The MASA API key is required.
func LoadServer() (Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return Server{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
