package ai

import (
	"strings"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
)

// PromptTemplate renders the system and user messages of a request.
type PromptTemplate struct {
	SystemPrompt string
	UserPrompt   string
}

// NewPromptTemplate falls back to the built-in prompts for empty arguments.
func NewPromptTemplate(system, user string) *PromptTemplate {
	if strings.TrimSpace(system) == "" {
		system = config.DefaultSystemPrompt
	}
	if strings.TrimSpace(user) == "" {
		user = config.DefaultUserPrompt
	}
	return &PromptTemplate{SystemPrompt: system, UserPrompt: user}
}

// RenderUserPrompt replaces the first {} placeholder with diff. Templates
// without a placeholder get the diff appended in a fenced block.
func (p *PromptTemplate) RenderUserPrompt(diff string) string {
	if strings.Contains(p.UserPrompt, config.DiffPlaceholder) {
		return strings.Replace(p.UserPrompt, config.DiffPlaceholder, diff, 1)
	}
	return p.UserPrompt + "\n\n```diff\n" + diff + "\n```"
}
