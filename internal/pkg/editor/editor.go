// Package editor opens the user's text editor on a commit message.
package editor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/runner"
)

// messageFileName lets editors apply their git commit syntax.
const messageFileName = "COMMIT_EDITMSG"

// fallbackEditors are tried in order when EDITOR is unset or not installed.
var fallbackEditors = []string{"vim", "vi", "nano"}

// Editor edits text through an external program.
type Editor interface {
	Edit(ctx context.Context, text string) (string, error)
}

// External runs $EDITOR, or the first installed fallback, on a temp file.
type External struct {
	runner   runner.Runner
	getenv   func(string) string
	lookPath func(string) (string, error)
	tempDir  string
}

var _ Editor = (*External)(nil)

// Option customizes an External editor.
type Option func(*External)

// WithEnv replaces os.Getenv for EDITOR lookup.
func WithEnv(getenv func(string) string) Option {
	return func(e *External) { e.getenv = getenv }
}

// WithLookPath replaces exec.LookPath for installation checks.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(e *External) { e.lookPath = lookPath }
}

// WithTempDir sets the directory session files are created in.
func WithTempDir(dir string) Option {
	return func(e *External) { e.tempDir = dir }
}

// New returns an External editor running processes through r.
func New(r runner.Runner, opts ...Option) *External {
	e := &External{
		runner:   r,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		tempDir:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the editor program and its leading arguments. EDITOR may
// carry arguments, e.g. "code --wait".
func (e *External) Resolve() (string, []string, error) {
	if fields := strings.Fields(e.getenv("EDITOR")); len(fields) > 0 {
		if _, err := e.lookPath(fields[0]); err == nil {
			if len(fields) == 1 {
				return fields[0], nil, nil
			}
			return fields[0], fields[1:], nil
		}
		apperrors.Warn("EDITOR=%s is not installed, falling back to %s", fields[0], strings.Join(fallbackEditors, "/"))
	}
	for _, name := range fallbackEditors {
		if _, err := e.lookPath(name); err == nil {
			return name, nil, nil
		}
	}
	return "", nil, apperrors.NewEditorError(apperrors.ErrEditorSpawn, strings.Join(fallbackEditors, ", "),
		exec.ErrNotFound)
}

// Edit writes text to a fresh session file, waits for the editor to exit and
// returns the file's new content.
func (e *External) Edit(ctx context.Context, text string) (string, error) {
	name, args, err := e.Resolve()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(e.tempDir, "aic-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", apperrors.NewEditorError(apperrors.ErrEditorSpawn, name, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, messageFileName)
	if err := os.WriteFile(path, []byte(text+"\n"), 0600); err != nil {
		return "", apperrors.NewEditorError(apperrors.ErrEditorSpawn, name, err)
	}

	res, err := e.runner.Run(ctx, runner.Command{
		Name:        name,
		Args:        append(append([]string(nil), args...), path),
		Interactive: true,
	})
	if err != nil {
		return "", apperrors.NewEditorError(apperrors.ErrEditorSpawn, name, err)
	}
	if !res.Success() {
		return "", apperrors.NewEditorError(apperrors.ErrEditorExit, name, nil).
			WithContext("exit_code", res.ExitCode)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.NewEditorError(apperrors.ErrEditorExit, name, err)
	}
	return string(edited), nil
}
