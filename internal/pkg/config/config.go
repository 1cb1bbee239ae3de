// Package config resolves aic settings from defaults, the global and project
// TOML files, AIC_* environment variables and per-invocation overrides.
package config

import (
	"strings"

	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

// Configuration keys.
const (
	KeyAPIToken     = "api_token"
	KeyAPIBaseURL   = "api_base_url"
	KeyModel        = "model"
	KeySystemPrompt = "system_prompt"
	KeyUserPrompt   = "user_prompt"

	// keyDefaultPrompt is the legacy name of system_prompt.
	keyDefaultPrompt = "default_prompt"
)

// Keys lists every supported key in display order.
var Keys = []string{KeyAPIToken, KeyAPIBaseURL, KeyModel, KeySystemPrompt, KeyUserPrompt}

const (
	// DefaultAPIBaseURL is the OpenAI API root.
	DefaultAPIBaseURL = "https://api.openai.com"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-3.5-turbo"
	// DiffPlaceholder marks where the staged diff goes in the user prompt.
	DiffPlaceholder = "{}"
)

// DefaultSystemPrompt instructs the model to write conventional commits.
const DefaultSystemPrompt = "You are an expert at writing clear and concise commit messages. " +
	"Follow these rules strictly:\n\n" +
	"1. Start with a type: feat, fix, docs, style, refactor, perf, test, build, ci, chore, or revert\n" +
	"2. Add a scope in parentheses when the change affects a specific component/module\n" +
	"3. Write a brief description in imperative mood (e.g., 'add' not 'added')\n" +
	"4. Keep the first line under 72 characters\n" +
	"5. For simple changes (single file, small modifications), use only the subject line\n" +
	"6. For complex changes (multiple files, new features, breaking changes):\n" +
	"   - Add a body explaining what and why\n" +
	"   - Use numbered points (1., 2., 3., etc.) to list distinct changes\n" +
	"   - Organize points in order of importance\n" +
	"Examples:\n" +
	"Simple: fix(parser): correct string interpolation logic\n" +
	"Complex: feat(auth): implement OAuth2 authentication system\n\n" +
	"This commit adds comprehensive OAuth2 support:\n\n" +
	"1. Implement Google and GitHub OAuth2 providers\n" +
	"2. Create secure token storage and refresh mechanism\n" +
	"3. Add middleware for protected route authentication\n" +
	"4. Update user model to store OAuth identifiers"

// DefaultUserPrompt wraps the staged diff.
const DefaultUserPrompt = "Generate a commit message for the following changes. First analyze the complexity of the diff.\n\n" +
	"For simple changes, provide only a subject line.\n\n" +
	"For complex changes, include a body with numbered points (1., 2., 3.) that clearly outline\n" +
	"each distinct modification or feature. Organize these points by importance.\n\n" +
	"Look for patterns like new features, bug fixes, or configuration changes to determine\n" +
	"the appropriate type and scope:\n\n" +
	"```diff\n" + DiffPlaceholder + "\n```"

var defaults = map[string]string{
	KeyAPIToken:     "",
	KeyAPIBaseURL:   DefaultAPIBaseURL,
	KeyModel:        DefaultModel,
	KeySystemPrompt: DefaultSystemPrompt,
	KeyUserPrompt:   DefaultUserPrompt,
}

// Default returns the hard-coded fallback for key.
func Default(key string) string {
	return defaults[key]
}

// Config is the resolved configuration handed to the commit flow.
type Config struct {
	APIToken     string `mapstructure:"api_token"`
	APIBaseURL   string `mapstructure:"api_base_url"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
	UserPrompt   string `mapstructure:"user_prompt"`
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return "", err
	}
	switch key {
	case KeyAPIToken:
		return c.APIToken, nil
	case KeyAPIBaseURL:
		return c.APIBaseURL, nil
	case KeyModel:
		return c.Model, nil
	case KeySystemPrompt:
		return c.SystemPrompt, nil
	default:
		return c.UserPrompt, nil
	}
}

// RequireToken fails when no api_token has been resolved.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return apperrors.NewMissingAPITokenError()
	}
	return nil
}

// NormalizeKey lowercases key, maps legacy aliases and rejects unknown keys.
func NormalizeKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == keyDefaultPrompt {
		return KeySystemPrompt, nil
	}
	if _, ok := defaults[k]; !ok {
		return "", apperrors.NewUnknownConfigKeyError(key, Keys)
	}
	return k, nil
}

// Scope selects which configuration file a write goes to.
type Scope int

const (
	// ScopeGlobal is the per-user file.
	ScopeGlobal Scope = iota
	// ScopeProject is the repository-local .aic.toml.
	ScopeProject
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeProject {
		return "project"
	}
	return "global"
}

// Source identifies where a resolved value came from.
type Source int

const (
	SourceDefault Source = iota
	SourceGlobal
	SourceProject
	SourceEnv
	SourceOverride
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourceProject:
		return "project"
	case SourceEnv:
		return "env"
	case SourceOverride:
		return "flag"
	default:
		return "default"
	}
}

// Entry is one resolved key for display.
type Entry struct {
	Key    string
	Value  string
	Source Source
	// Origin is the file path or environment variable name behind Source.
	Origin string
}
