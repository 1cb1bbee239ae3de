package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PlainManager writes unstyled text and reads answers line by line.
// It is used when stdin or stdout is not a terminal.
type PlainManager struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Manager = (*PlainManager)(nil)

// NewPlainManager creates a PlainManager.
func NewPlainManager(in io.Reader, out io.Writer) *PlainManager {
	return &PlainManager{in: bufio.NewReader(in), out: out}
}

func (m *PlainManager) ShowHeader() {
	fmt.Fprintf(m.out, "== %s ==\n", HeaderTitle)
}

func (m *PlainManager) ShowStep(text string) {
	fmt.Fprintf(m.out, "→ %s\n", text)
}

func (m *PlainManager) DisplayMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	fmt.Fprintf(m.out, "\nProposed commit:\n  %s\n\n", FormatCommitCommand(message))
	return nil
}

// PromptDecision reads one line. End of input and unrecognized answers mean No.
func (m *PlainManager) PromptDecision() (Decision, error) {
	fmt.Fprint(m.out, "Execute this commit? [Y/m/n] ")
	line, err := m.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(m.out)
		if err == io.EOF {
			return DecisionNo, nil
		}
		return DecisionNo, err
	}

	d, ok := ParseDecision(line)
	if !ok {
		fmt.Fprintf(m.out, "Invalid choice %q, treating as no.\n", strings.TrimSpace(line))
	}
	return d, nil
}

func (m *PlainManager) ShowSpinner(text string) Spinner {
	fmt.Fprintf(m.out, "%s\n", text)
	return noopSpinner{}
}

func (m *PlainManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, message)
}

func (m *PlainManager) ShowWarning(message string) {
	fmt.Fprintf(m.out, "! %s\n", message)
}

func (m *PlainManager) ShowSuccess(message string) {
	fmt.Fprintf(m.out, "✓ %s\n", message)
}

