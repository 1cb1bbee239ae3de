// Package git wraps the git command line for aic.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/runner"
)

const (
	// GitCommandTimeout is the default timeout for local git commands.
	GitCommandTimeout = 30 * time.Second
	// PushTimeout bounds git push, which talks to the network.
	PushTimeout = 120 * time.Second

	defaultRemote = "origin"
)

// Client defines the git operations used by the commit flow.
type Client interface {
	RepositoryRoot() (string, error)
	StagedDiff(ctx context.Context) (string, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
}

// DefaultClient implements Client by running the git binary.
type DefaultClient struct {
	runner runner.Runner
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a DefaultClient running real git processes in workDir.
func NewClient(workDir string) *DefaultClient {
	return NewClientWithRunner(runner.NewExecRunner(), workDir)
}

// NewClientWithRunner creates a DefaultClient on top of r.
func NewClientWithRunner(r runner.Runner, workDir string) *DefaultClient {
	return &DefaultClient{runner: r, workDir: workDir}
}

// RepositoryRoot walks upward from the working directory until it finds a
// directory containing .git (a directory, or a file for worktrees).
func (c *DefaultClient) RepositoryRoot() (string, error) {
	start, err := c.dir()
	if err != nil {
		return "", err
	}
	return FindRepositoryRoot(start)
}

// FindRepositoryRoot returns the closest ancestor of start (inclusive) that
// contains a .git entry.
func FindRepositoryRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", apperrors.NewNotARepositoryError(start)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", apperrors.NewNotARepositoryError(start)
		}
		dir = parent
	}
}

// StagedDiff returns the diff of the index against HEAD.
func (c *DefaultClient) StagedDiff(ctx context.Context) (string, error) {
	if _, err := c.RepositoryRoot(); err != nil {
		return "", err
	}

	res, err := c.git(ctx, GitCommandTimeout, "diff", "--cached", "--no-color", "--no-ext-diff")
	if err != nil {
		return "", err
	}
	if !res.Success() {
		if strings.Contains(strings.ToLower(res.Stderr), "not a git repository") {
			dir, _ := c.dir()
			return "", apperrors.NewNotARepositoryError(dir)
		}
		return "", apperrors.NewGitError(apperrors.ErrGitCommandFailed, exitError(res), res.Output())
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return "", apperrors.NewNoStagedChangesError()
	}
	return res.Stdout, nil
}

// StageAll stages every working-tree change, including deletions.
func (c *DefaultClient) StageAll(ctx context.Context) error {
	res, err := c.git(ctx, GitCommandTimeout, "add", "--all")
	if err != nil {
		return err
	}
	if !res.Success() {
		return apperrors.NewGitError(apperrors.ErrGitCommandFailed, exitError(res), res.Output())
	}
	return nil
}

// Commit records the staged changes with message.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	res, err := c.git(ctx, GitCommandTimeout, "commit", "-m", message)
	if err != nil {
		return apperrors.NewGitError(apperrors.ErrCommitFailed, err, "")
	}
	if !res.Success() {
		return apperrors.NewGitError(apperrors.ErrCommitFailed, exitError(res), res.Output())
	}
	return nil
}

// Push pushes the current branch. A branch without upstream is pushed to
// origin with tracking set.
func (c *DefaultClient) Push(ctx context.Context) error {
	args := []string{"push"}
	if !c.hasUpstream(ctx) {
		branch, err := c.currentBranch(ctx)
		if err != nil {
			return apperrors.NewGitError(apperrors.ErrPushFailed, err, "")
		}
		args = append(args, "-u", defaultRemote, branch)
	}

	res, err := c.git(ctx, PushTimeout, args...)
	if err != nil {
		return apperrors.NewGitError(apperrors.ErrPushFailed, err, "")
	}
	if !res.Success() {
		return apperrors.NewGitError(apperrors.ErrPushFailed, exitError(res), res.Output())
	}
	return nil
}

func (c *DefaultClient) hasUpstream(ctx context.Context) bool {
	res, err := c.git(ctx, GitCommandTimeout, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	return err == nil && res.Success()
}

func (c *DefaultClient) currentBranch(ctx context.Context) (string, error) {
	res, err := c.git(ctx, GitCommandTimeout, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", fmt.Errorf("resolve current branch: %s", res.Output())
	}
	branch := strings.TrimSpace(res.Stdout)
	if branch == "" || branch == "HEAD" {
		return "", errors.New("detached HEAD has no branch to push")
	}
	return branch, nil
}

// git runs one git command with its own timeout. Start failures and
// timeouts are returned as errors; exit codes are left to the caller.
func (c *DefaultClient) git(ctx context.Context, timeout time.Duration, args ...string) (*runner.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, runner.Command{Name: "git", Args: args, Dir: c.workDir})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(err, apperrors.ErrGitCommandFailed, fmt.Sprintf("git %s timed out after %v", args[0], timeout))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrGitCommandFailed, "failed to run git")
	}
	return res, nil
}

func (c *DefaultClient) dir() (string, error) {
	if c.workDir != "" {
		return c.workDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrGitCommandFailed, "failed to determine working directory")
	}
	return wd, nil
}

func exitError(res *runner.Result) error {
	return fmt.Errorf("exit status %d", res.ExitCode)
}
