package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 33))
	assert.Equal(t, "a b", Preview("a\n  b", 33))

	long := strings.Repeat("x", 40)
	assert.Equal(t, strings.Repeat("x", 33)+"...", Preview(long, 33))
	assert.Equal(t, "ééé...", Preview("éééé", 3))
}

func TestRenderConfigTable(t *testing.T) {
	entries := []config.Entry{
		{Key: config.KeyAPIToken, Value: "sk-1•••••", Source: config.SourceGlobal, Origin: "/home/u/.config/aic/config.toml"},
		{Key: config.KeyModel, Value: "gpt-4o", Source: config.SourceEnv, Origin: "AIC_MODEL"},
		{Key: config.KeySystemPrompt, Value: strings.Repeat("p", 50), Source: config.SourceDefault},
		{Key: config.KeyUserPrompt, Value: "", Source: config.SourceDefault},
	}

	out := RenderConfigTable(entries, false, false)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "VALUE")
	assert.NotContains(t, out, "SOURCE")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, strings.Repeat("p", 33)+"...")
	assert.NotContains(t, out, strings.Repeat("p", 34))
	assert.Contains(t, out, "(not set)")

	withSources := RenderConfigTable(entries, true, false)
	assert.Contains(t, withSources, "SOURCE")
	assert.Contains(t, withSources, "AIC_MODEL")
	assert.Contains(t, withSources, "env")
}
