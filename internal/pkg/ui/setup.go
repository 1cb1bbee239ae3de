package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
)

// ConfigWriter persists a single key in a scope.
type ConfigWriter interface {
	Set(key, value string, scope config.Scope) error
}

// SetupValues holds the answers collected by config setup.
type SetupValues struct {
	APIToken     string
	APIBaseURL   string
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// Empty reports whether no value was provided.
func (v SetupValues) Empty() bool {
	return v.APIToken == "" && v.APIBaseURL == "" && v.Model == "" &&
		v.SystemPrompt == "" && v.UserPrompt == ""
}

// ApplySetup writes every non-empty value and returns the keys it saved.
func ApplySetup(w ConfigWriter, scope config.Scope, v SetupValues) ([]string, error) {
	pairs := []struct{ key, value string }{
		{config.KeyAPIToken, strings.TrimSpace(v.APIToken)},
		{config.KeyAPIBaseURL, strings.TrimSpace(v.APIBaseURL)},
		{config.KeyModel, strings.TrimSpace(v.Model)},
		{config.KeySystemPrompt, strings.TrimSpace(v.SystemPrompt)},
		{config.KeyUserPrompt, strings.TrimSpace(v.UserPrompt)},
	}

	var saved []string
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if err := w.Set(p.key, p.value, scope); err != nil {
			return saved, err
		}
		saved = append(saved, p.key)
	}
	return saved, nil
}

// RunInteractiveSetup asks for the connection settings with a huh form,
// prefilled from current, and saves the answers.
func RunInteractiveSetup(w ConfigWriter, scope config.Scope, current *config.Config) ([]string, error) {
	values := SetupValues{}
	if current != nil {
		values.APIBaseURL = current.APIBaseURL
		values.Model = current.Model
	}

	if err := newSetupForm(&values, current != nil && current.APIToken != "").Run(); err != nil {
		return nil, fmt.Errorf("setup cancelled: %w", err)
	}

	if current != nil {
		if values.APIBaseURL == current.APIBaseURL && values.APIBaseURL == config.DefaultAPIBaseURL {
			values.APIBaseURL = ""
		}
		if values.Model == current.Model && values.Model == config.DefaultModel {
			values.Model = ""
		}
	}

	return ApplySetup(w, scope, values)
}

func newSetupForm(values *SetupValues, hasToken bool) *huh.Form {
	tokenDesc := "Stored in the config file with 0600 permissions"
	if hasToken {
		tokenDesc = "Leave empty to keep the current token"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				Description(tokenDesc).
				Password(true).
				Validate(func(s string) error {
					if !hasToken && strings.TrimSpace(s) == "" {
						return fmt.Errorf("API token is required")
					}
					return nil
				}).
				Value(&values.APIToken),
			huh.NewInput().
				Title("API base URL").
				Placeholder(config.DefaultAPIBaseURL).
				Validate(validateBaseURL).
				Value(&values.APIBaseURL),
			huh.NewInput().
				Title("Model").
				Placeholder(config.DefaultModel).
				Value(&values.Model),
		),
	)
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL such as %s", config.DefaultAPIBaseURL)
	}
	return nil
}
