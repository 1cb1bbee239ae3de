// Package ui provides the terminal presentation layer for aic.
package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HeaderTitle is printed in the banner at the start of a run.
const HeaderTitle = "AI Commit Message Generator"

// Decision is the user's answer to the commit prompt.
type Decision int

const (
	DecisionYes Decision = iota
	DecisionModify
	DecisionNo
)

// String returns the string representation of a Decision.
func (d Decision) String() string {
	switch d {
	case DecisionYes:
		return "yes"
	case DecisionModify:
		return "modify"
	case DecisionNo:
		return "no"
	default:
		return "unknown"
	}
}

// ParseDecision maps a typed answer to a Decision. An empty answer means Yes.
func ParseDecision(answer string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return DecisionYes, true
	case "m", "modify", "e", "edit":
		return DecisionModify, true
	case "n", "no":
		return DecisionNo, true
	default:
		return DecisionNo, false
	}
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
}

// Manager defines the interface for UI operations.
type Manager interface {
	ShowHeader()
	ShowStep(text string)
	DisplayMessage(message string) error
	PromptDecision() (Decision, error)
	ShowSpinner(text string) Spinner
	ShowInfo(message string)
	ShowWarning(message string)
	ShowSuccess(message string)
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	header  lipgloss.Style
	title   lipgloss.Style
	command lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{
			header:  plain.Border(lipgloss.NormalBorder()).Padding(0, 2),
			title:   plain,
			command: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			step:    plain,
			success: plain,
			warning: plain,
			info:    plain,
			muted:   plain,
		}
	}

	return &styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		step: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// FormatCommitCommand renders message as a git command that is safe to paste
// into a POSIX shell: characters special inside double quotes are escaped.
func FormatCommitCommand(message string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace(message)
	return fmt.Sprintf("git commit -m \"%s\"", escaped)
}

// DefaultManager renders styled output and asks for decisions with Bubble Tea.
type DefaultManager struct {
	in     io.Reader
	out    io.Writer
	styles *styles
}

var _ Manager = (*DefaultManager)(nil)

// NewDefaultManager creates a DefaultManager reading keys from in and writing to out.
func NewDefaultManager(in io.Reader, out io.Writer, colorEnabled bool) *DefaultManager {
	return &DefaultManager{in: in, out: out, styles: newStyles(colorEnabled)}
}

// ShowHeader prints the banner.
func (m *DefaultManager) ShowHeader() {
	fmt.Fprintln(m.out, m.styles.header.Render(HeaderTitle))
}

// ShowStep prints a progress line.
func (m *DefaultManager) ShowStep(text string) {
	fmt.Fprintln(m.out, m.styles.step.Render("→ "+text))
}

// DisplayMessage shows the proposed commit command.
func (m *DefaultManager) DisplayMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.styles.title.Render("Proposed commit"))
	fmt.Fprintln(m.out, m.styles.command.Render(FormatCommitCommand(message)))
	fmt.Fprintln(m.out)
	return nil
}

// PromptDecision runs the Y/m/n selector.
func (m *DefaultManager) PromptDecision() (Decision, error) {
	p := tea.NewProgram(newDecisionModel(m.styles), tea.WithInput(m.in), tea.WithOutput(m.out))
	finalModel, err := p.Run()
	if err != nil {
		return DecisionNo, err
	}
	return finalModel.(decisionModel).selected, nil
}

// ShowSpinner returns a started-on-demand Bubble Tea spinner.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(m.out, text)
}

// ShowInfo prints an informational line.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.styles.info.Render(message))
}

// ShowWarning prints a warning line.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.out, m.styles.warning.Render("! "+message))
}

// ShowSuccess prints a success line.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("✓ "+message))
}

// decisionModel is the Bubble Tea model for the commit prompt.
type decisionModel struct {
	styles   *styles
	choices  []Decision
	cursor   int
	selected Decision
	done     bool
}

func newDecisionModel(s *styles) decisionModel {
	return decisionModel{
		styles:   s,
		choices:  []Decision{DecisionYes, DecisionModify, DecisionNo},
		selected: DecisionNo,
	}
}

func (m decisionModel) Init() tea.Cmd {
	return nil
}

func (m decisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		return m.choose(DecisionNo)
	case "left", "h", "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l", "down", "j", "tab":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		return m.choose(m.choices[m.cursor])
	case "y", "Y":
		return m.choose(DecisionYes)
	case "m", "M", "e", "E":
		return m.choose(DecisionModify)
	case "n", "N":
		return m.choose(DecisionNo)
	}
	return m, nil
}

func (m decisionModel) choose(d Decision) (tea.Model, tea.Cmd) {
	m.selected = d
	m.done = true
	return m, tea.Quit
}

func (m decisionModel) View() string {
	if m.done {
		return ""
	}
	labels := map[Decision]string{DecisionYes: "Yes", DecisionModify: "Modify", DecisionNo: "No"}

	var sb strings.Builder
	sb.WriteString(m.styles.title.Render("Execute this commit? [Y/m/n]"))
	sb.WriteString("  ")
	for i, d := range m.choices {
		label := labels[d]
		if i == m.cursor {
			sb.WriteString(m.styles.success.Render("[" + label + "]"))
		} else {
			sb.WriteString(m.styles.muted.Render(" " + label + " "))
		}
		sb.WriteString(" ")
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.muted.Render("y/m/n or ←/→ + Enter • Esc to cancel"))
	return sb.String()
}
