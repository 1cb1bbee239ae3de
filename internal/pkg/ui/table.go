package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
)

// PromptPreviewLength is how many characters of a prompt the list view shows.
const PromptPreviewLength = 33

// Preview flattens value onto one line and cuts it to n characters plus "...".
func Preview(value string, n int) string {
	flat := strings.Join(strings.Fields(value), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}

// RenderConfigTable renders entries as a table. With sources the table gains
// SOURCE and ORIGIN columns.
func RenderConfigTable(entries []config.Entry, withSources, colorEnabled bool) string {
	headers := []string{"KEY", "VALUE"}
	if withSources {
		headers = append(headers, "SOURCE", "ORIGIN")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		value := e.Value
		if e.Key == config.KeySystemPrompt || e.Key == config.KeyUserPrompt {
			value = Preview(value, PromptPreviewLength)
		}
		if value == "" {
			value = "(not set)"
		}
		row := []string{e.Key, value}
		if withSources {
			row = append(row, e.Source.String(), e.Origin)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	borderStyle := lipgloss.NewStyle()
	if colorEnabled {
		headerStyle = headerStyle.Foreground(lipgloss.Color("39"))
		borderStyle = borderStyle.Foreground(lipgloss.Color("62"))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
