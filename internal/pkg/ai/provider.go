// Package ai talks to OpenAI-compatible chat-completion APIs.
package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 60 * time.Second

// Generator produces commit messages from staged diffs.
type Generator interface {
	// Generate returns the first completion for diff, trimmed at the edges.
	Generate(ctx context.Context, diff string) (string, error)
	// Ping sends a minimal request to check connectivity and credentials.
	Ping(ctx context.Context) error
}

// Settings configures a Client.
type Settings struct {
	APIToken     string
	BaseURL      string
	Model        string
	SystemPrompt string
	UserPrompt   string
	Timeout      time.Duration
	// HTTPClient replaces the default HTTP client, e.g. with a canned doer in tests.
	HTTPClient openai.HTTPDoer
}

// SettingsFromConfig copies the API-related keys of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		APIToken:     cfg.APIToken,
		BaseURL:      cfg.APIBaseURL,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		UserPrompt:   cfg.UserPrompt,
	}
}
