// Package message inspects generated commit messages.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ConventionalTypes contains the Conventional Commits types.
var ConventionalTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// headerRegex matches <type>(<scope>)!: <description>.
var headerRegex = regexp.MustCompile(`^([a-z]+)(\(([^)]+)\))?(!)?:\s*(.+)$`)

// CommitMessage is a commit message split into its parts.
type CommitMessage struct {
	Subject string
	Body    string
	// Type and Scope are set when the subject follows Conventional Commits.
	Type     string
	Scope    string
	Breaking bool
	// blankAfterSubject is false when the body starts on the second line.
	blankAfterSubject bool
}

// Parse splits raw into subject and body.
func Parse(raw string) *CommitMessage {
	raw = strings.TrimSpace(raw)
	lines := strings.Split(raw, "\n")

	cm := &CommitMessage{Subject: strings.TrimSpace(lines[0]), blankAfterSubject: true}
	if len(lines) > 1 {
		cm.blankAfterSubject = strings.TrimSpace(lines[1]) == ""
		cm.Body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}

	if m := headerRegex.FindStringSubmatch(cm.Subject); m != nil && slices.Contains(ConventionalTypes, m[1]) {
		cm.Type = m[1]
		cm.Scope = m[3]
		cm.Breaking = m[4] == "!"
	}
	return cm
}

// IsConventional reports whether the subject carries a known type.
func (cm *CommitMessage) IsConventional() bool {
	return cm.Type != ""
}

// Warnings returns style problems worth showing before committing.
func (cm *CommitMessage) Warnings() []string {
	var warnings []string
	if n := len([]rune(cm.Subject)); n > MaxSubjectLength {
		warnings = append(warnings, fmt.Sprintf("subject line exceeds %d characters (%d chars)", MaxSubjectLength, n))
	}
	if cm.Body != "" && !cm.blankAfterSubject {
		warnings = append(warnings, "subject and body should be separated by a blank line")
	}
	if strings.HasSuffix(cm.Subject, ".") {
		warnings = append(warnings, "subject line ends with a period")
	}
	return warnings
}
