package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected int
	}{
		{"InvalidArguments", ErrInvalidArguments, 1},
		{"UnknownConfigKey", ErrUnknownConfigKey, 1},
		{"ConfigParse", ErrConfigParse, 1},
		{"MissingAPIToken", ErrMissingAPIToken, 1},
		{"NotARepository", ErrNotARepository, 1},
		{"GitCommandFailed", ErrGitCommandFailed, 2},
		{"CommitFailed", ErrCommitFailed, 2},
		{"PushFailed", ErrPushFailed, 2},
		{"NoWritableLocation", ErrNoWritableLocation, 2},
		{"EditorExit", ErrEditorExit, 2},
		{"APINetwork", ErrAPINetwork, 3},
		{"APIUnauthorized", ErrAPIUnauthorized, 3},
		{"APIBadResponse", ErrAPIBadResponse, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %v, want %v", got, tt.expected)
			}
			if got := tt.code.String(); got != tt.name {
				t.Errorf("String() = %v, want %v", got, tt.name)
			}
		})
	}
}

func TestErrorCode_StringUnknown(t *testing.T) {
	if got := ErrorCode(999).String(); got != "Unknown" {
		t.Errorf("String() = %v, want Unknown", got)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without cause",
			err: &AppError{
				Code:    ErrNoStagedChanges,
				Message: "no staged changes",
			},
			expected: "no staged changes",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrCommitFailed, "commit failed")
	err.WithContext("command", "git commit")
	err.WithContext("exit_code", 1)

	if err.Context["command"] != "git commit" {
		t.Errorf("Context[command] = %v, want 'git commit'", err.Context["command"])
	}
	if err.Context["exit_code"] != 1 {
		t.Errorf("Context[exit_code] = %v, want 1", err.Context["exit_code"])
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	wrapped := Wrap(cause, ErrConfigWrite, "failed to write config")

	if wrapped.Code != ErrConfigWrite {
		t.Errorf("Code = %v, want %v", wrapped.Code, ErrConfigWrite)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Wrapped error should contain the cause")
	}
}

func TestHasCode(t *testing.T) {
	inner := NewNoStagedChangesError()
	outer := Wrap(inner, ErrGitCommandFailed, "diff failed")
	plain := fmt.Errorf("context: %w", outer)

	if !HasCode(plain, ErrNoStagedChanges) {
		t.Error("HasCode should find a nested code")
	}
	if !HasCode(plain, ErrGitCommandFailed) {
		t.Error("HasCode should find the outer code")
	}
	if HasCode(plain, ErrPushFailed) {
		t.Error("HasCode should not match an absent code")
	}
	if HasCode(errors.New("plain"), ErrPushFailed) {
		t.Error("HasCode should be false for non-AppError chains")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"user", NewMissingAPITokenError(), 1},
		{"system", NewGitError(ErrPushFailed, errors.New("exit 1"), "rejected"), 2},
		{"external", NewNetworkError(errors.New("dial tcp")), 3},
		{"wrapped", fmt.Errorf("ping: %w", NewUnauthorizedError(nil)), 3},
		{"regular", errors.New("regular error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewGitError(t *testing.T) {
	err := NewGitError(ErrCommitFailed, errors.New("exit status 1"), "nothing to commit")
	if err.Code != ErrCommitFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCommitFailed)
	}
	if err.Context["stderr"] != "nothing to commit" {
		t.Errorf("Context[stderr] = %v", err.Context["stderr"])
	}

	generic := NewGitError(ErrInvalidArguments, nil, "")
	if generic.Code != ErrGitCommandFailed {
		t.Errorf("unexpected code %v for generic git error", generic.Code)
	}
	if generic.Context != nil {
		t.Error("Context should be nil without output")
	}
}

func TestNewEditorError(t *testing.T) {
	spawn := NewEditorError(ErrEditorSpawn, "vim", errors.New("not found"))
	if !strings.Contains(spawn.Message, "failed to start") {
		t.Errorf("Message = %q", spawn.Message)
	}
	exit := NewEditorError(ErrEditorExit, "vim", nil)
	if !strings.Contains(exit.Message, "exited") {
		t.Errorf("Message = %q", exit.Message)
	}
}

func TestConstructorsHaveSuggestions(t *testing.T) {
	for _, err := range []*AppError{
		NewMissingAPITokenError(),
		NewUnknownConfigKeyError("foo", []string{"model"}),
		NewConfigParseError("/tmp/x.toml", errors.New("bad")),
		NewNoStagedChangesError(),
		NewNotARepositoryError("/tmp"),
		NewNetworkError(nil),
		NewUnauthorizedError(nil),
	} {
		if err.Suggestion == "" {
			t.Errorf("%s: Suggestion should not be empty", err.Code)
		}
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name: "app error with suggestion",
			err: &AppError{
				Code:       ErrNoStagedChanges,
				Message:    "no staged changes",
				Suggestion: "Use git add",
			},
			contains: []string{"Error:", "no staged changes", "Suggestion:", "Use git add"},
		},
		{
			name:     "git error with output",
			err:      NewGitError(ErrPushFailed, errors.New("exit status 1"), "remote rejected\n"),
			contains: []string{"git push failed", "Cause: exit status 1", "Output: remote rejected"},
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			contains: []string{"Error:", "regular error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.err)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("FormatError() should contain %q, got %q", s, result)
				}
			}
		})
	}

	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	err := NewConfigParseError("/home/u/.config/aic/config.toml", errors.New("toml: line 2: expected '='"))
	err.WithContext("scope", "global")

	out := FormatErrorVerbose(err)
	for _, s := range []string{"[ConfigParse]", "Error chain:", "line 2", "scope: global", "Suggestion:"} {
		if !strings.Contains(out, s) {
			t.Errorf("FormatErrorVerbose() should contain %q, got %q", s, out)
		}
	}
}

func TestFormatError_MasksSecrets(t *testing.T) {
	err := Wrap(errors.New("header Bearer abc.def rejected"), ErrAPIUnauthorized, "auth failed for sk-abcdefghijklmnopqrstuvwx")
	for _, out := range []string{FormatError(err), FormatErrorVerbose(err)} {
		if strings.Contains(out, "sk-abcdefghijklmnop") {
			t.Errorf("key leaked: %q", out)
		}
		if strings.Contains(out, "abc.def") {
			t.Errorf("bearer token leaked: %q", out)
		}
		if !strings.Contains(out, "sk-****") {
			t.Errorf("masked key missing: %q", out)
		}
	}
}
