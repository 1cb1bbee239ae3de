// Package errors provides the error type, error codes and logging helpers for aic.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shenxiangzhuang/aic/internal/pkg/security"
)

// ErrorCode represents the category of an error.
type ErrorCode int

// User and configuration errors (exit code 1).
const (
	ErrInvalidArguments ErrorCode = iota + 100
	ErrUnknownConfigKey
	ErrConfigParse
	ErrMissingAPIToken
	ErrNoStagedChanges
	ErrNotARepository
	ErrEmptyCommitMessage
)

// System and subprocess errors (exit code 2).
const (
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrCommitFailed
	ErrPushFailed
	ErrNoWritableLocation
	ErrConfigWrite
	ErrEditorSpawn
	ErrEditorExit
)

// External API errors (exit code 3).
const (
	ErrAPINetwork ErrorCode = iota + 300
	ErrAPIUnauthorized
	ErrAPIBadResponse
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1
	case c >= 200 && c < 300:
		return 2
	case c >= 300:
		return 3
	default:
		return 1
	}
}

var codeNames = map[ErrorCode]string{
	ErrInvalidArguments:   "InvalidArguments",
	ErrUnknownConfigKey:   "UnknownConfigKey",
	ErrConfigParse:        "ConfigParse",
	ErrMissingAPIToken:    "MissingAPIToken",
	ErrNoStagedChanges:    "NoStagedChanges",
	ErrNotARepository:     "NotARepository",
	ErrEmptyCommitMessage: "EmptyCommitMessage",
	ErrGitCommandFailed:   "GitCommandFailed",
	ErrCommitFailed:       "CommitFailed",
	ErrPushFailed:         "PushFailed",
	ErrNoWritableLocation: "NoWritableLocation",
	ErrConfigWrite:        "ConfigWrite",
	ErrEditorSpawn:        "EditorSpawn",
	ErrEditorExit:         "EditorExit",
	ErrAPINetwork:         "APINetwork",
	ErrAPIUnauthorized:    "APIUnauthorized",
	ErrAPIBadResponse:     "APIBadResponse",
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// Common error constructors with suggestions

// NewMissingAPITokenError creates an error for an absent api_token.
func NewMissingAPITokenError() *AppError {
	return &AppError{
		Code:       ErrMissingAPIToken,
		Message:    "API token not found",
		Suggestion: "Set it using 'aic config set api_token YOUR_TOKEN' or the AIC_API_TOKEN environment variable",
	}
}

// NewUnknownConfigKeyError creates an error for a key outside the supported set.
func NewUnknownConfigKeyError(key string, valid []string) *AppError {
	return &AppError{
		Code:       ErrUnknownConfigKey,
		Message:    fmt.Sprintf("unknown configuration key: %s", key),
		Suggestion: "Valid keys: " + strings.Join(valid, ", "),
	}
}

// NewConfigParseError creates an error for a malformed configuration file.
func NewConfigParseError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrConfigParse,
		Message:    fmt.Sprintf("invalid configuration file %s", path),
		Cause:      err,
		Suggestion: "Fix the TOML syntax or remove the file to fall back to defaults",
	}
}

// NewNoStagedChangesError creates an error for an empty staged diff.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    "no staged changes found",
		Suggestion: "Use 'git add <files>' to stage changes, or run with --add-all",
	}
}

// NewNotARepositoryError creates an error for invocations outside a git work tree.
func NewNotARepositoryError(dir string) *AppError {
	return &AppError{
		Code:       ErrNotARepository,
		Message:    "not a git repository (or any of the parent directories)",
		Context:    map[string]interface{}{"dir": dir},
		Suggestion: "Run aic from inside a git repository or pass -C <path>",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(code ErrorCode, err error, output string) *AppError {
	messages := map[ErrorCode]string{
		ErrCommitFailed: "git commit failed",
		ErrPushFailed:   "git push failed",
	}
	msg, ok := messages[code]
	if !ok {
		code, msg = ErrGitCommandFailed, "git command failed"
	}
	appErr := &AppError{
		Code:    code,
		Message: msg,
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"stderr": output,
		}
	}
	return appErr
}

// NewNetworkError creates an error for transport failures.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:       ErrAPINetwork,
		Message:    "could not reach the completion API",
		Cause:      err,
		Suggestion: "Check your network connection and api_base_url",
	}
}

// NewUnauthorizedError creates an error for a rejected bearer token.
func NewUnauthorizedError(err error) *AppError {
	return &AppError{
		Code:       ErrAPIUnauthorized,
		Message:    "the completion API rejected the token (401 Unauthorized)",
		Cause:      err,
		Suggestion: "Check api_token with 'aic config get api_token' and run 'aic ping'",
	}
}

// NewBadResponseError creates an error for an unexpected API reply.
func NewBadResponseError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrAPIBadResponse,
		Message: message,
		Cause:   err,
	}
}

// NewEditorError creates an error for editor spawn failures or non-zero exits.
func NewEditorError(code ErrorCode, editor string, err error) *AppError {
	msg := fmt.Sprintf("failed to start editor %q", editor)
	if code == ErrEditorExit {
		msg = fmt.Sprintf("editor %q exited with an error", editor)
	}
	return &AppError{
		Code:       code,
		Message:    msg,
		Cause:      err,
		Suggestion: "Set EDITOR to an installed editor, e.g. 'export EDITOR=nano'",
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(security.SanitizeForLogging(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(security.SanitizeForLogging(appErr.Cause.Error()))
		}
		if stderr, ok := appErr.Context["stderr"]; ok {
			sb.WriteString("\n  Output: ")
			sb.WriteString(security.SanitizeForLogging(strings.TrimSpace(fmt.Sprint(stderr))))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(security.SanitizeForLogging(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr == nil {
		sb.WriteString(fmt.Sprintf("Error: %v\n", security.SanitizeForLogging(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), security.SanitizeForLogging(appErr.Message)))
	if appErr.Cause != nil {
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, appErr.Cause, 2)
	}
	if len(appErr.Context) > 0 {
		sb.WriteString("  Context:\n")
		for k, v := range appErr.Context {
			sb.WriteString(fmt.Sprintf("    %s: %v\n", k, security.SanitizeForLogging(fmt.Sprintf("%v", v))))
		}
	}
	if appErr.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
	}

	return sb.String()
}

func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, security.SanitizeForLogging(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}
