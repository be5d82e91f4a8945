package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all environment backed configuration for the chat client.
type Config struct {
	// HTTP Server
	HTTPPort    int           `env:"HTTP_PORT" envDefault:"8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Data gateway (Supabase-style REST + auth endpoints)
	DataGatewayURL string `env:"DATA_GATEWAY_URL,notEmpty"`
	DataGatewayKey string `env:"DATA_GATEWAY_ANON_KEY,notEmpty"`

	// Completion gateway
	CompletionBaseURL string   `env:"COMPLETION_BASE_URL" envDefault:"https://models.inference.ai.azure.com"`
	CompletionModel   string   `env:"COMPLETION_MODEL" envDefault:"gpt-4o"`
	CompletionAPIKeys []string `env:"COMPLETION_API_KEYS,notEmpty" envSeparator:","`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"120s"`

	// Conversation titles
	TitleMaxLength int    `env:"TITLE_MAX_LENGTH" envDefault:"30"`
	DefaultTitle   string `env:"DEFAULT_TITLE" envDefault:"New Conversation"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DataGatewayURL = strings.TrimRight(strings.TrimSpace(cfg.DataGatewayURL), "/")
	if _, err := url.ParseRequestURI(cfg.DataGatewayURL); err != nil {
		return nil, fmt.Errorf("invalid DATA_GATEWAY_URL: %w", err)
	}

	cfg.CompletionBaseURL = strings.TrimRight(strings.TrimSpace(cfg.CompletionBaseURL), "/")
	if _, err := url.ParseRequestURI(cfg.CompletionBaseURL); err != nil {
		return nil, fmt.Errorf("invalid COMPLETION_BASE_URL: %w", err)
	}

	keys := make([]string, 0, len(cfg.CompletionAPIKeys))
	for _, key := range cfg.CompletionAPIKeys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("COMPLETION_API_KEYS must contain at least one key")
	}
	cfg.CompletionAPIKeys = keys

	if cfg.TitleMaxLength < 4 {
		return nil, errors.New("TITLE_MAX_LENGTH must leave room for an ellipsis")
	}

	return cfg, nil
}
