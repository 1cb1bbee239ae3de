// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenxiangzhuang/aic/internal/pkg/ai"
	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	"github.com/shenxiangzhuang/aic/internal/pkg/editor"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/git"
	"github.com/shenxiangzhuang/aic/internal/pkg/message"
	"github.com/shenxiangzhuang/aic/internal/pkg/ui"
)

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	// StageAll runs `git add --all` before reading the diff.
	StageAll bool
	// AutoCommit skips the decision prompt and commits.
	AutoCommit bool
	// Push pushes after a successful commit.
	Push bool
	// DryRun stops after presenting the message.
	DryRun bool
}

// Outcome is the terminal state of a run.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeAborted
	OutcomeNoChanges
	OutcomeGenerated
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeNoChanges:
		return "no changes"
	case OutcomeGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// Result describes how a run ended.
type Result struct {
	Outcome Outcome
	Message string
	// Pushed is true when the push step ran and succeeded.
	Pushed bool
	// PushErr is set when the commit succeeded but the push did not.
	PushErr error
}

// CommitService orchestrates the commit message generation workflow.
type CommitService struct {
	gitClient git.Client
	generator ai.Generator
	uiManager ui.Manager
	editor    editor.Editor
	config    *config.Config
}

// NewCommitService creates a new CommitService with the given dependencies.
func NewCommitService(
	gitClient git.Client,
	generator ai.Generator,
	uiManager ui.Manager,
	ed editor.Editor,
	cfg *config.Config,
) *CommitService {
	return &CommitService{
		gitClient: gitClient,
		generator: generator,
		uiManager: uiManager,
		editor:    ed,
		config:    cfg,
	}
}

// Run executes one pass of the flow:
// init → stage → diff → generate → present → decide → commit → push.
//
// A commit that succeeds followed by a failed push returns a Result with
// PushErr set and no error; callers decide the exit status.
func (s *CommitService) Run(ctx context.Context, opts CommitOptions) (*Result, error) {
	if err := s.config.RequireToken(); err != nil {
		return nil, err
	}

	if opts.StageAll {
		s.uiManager.ShowStep("Staging all changes")
		if err := s.gitClient.StageAll(ctx); err != nil {
			return nil, err
		}
	}

	s.uiManager.ShowStep("Analyzing staged changes")
	diff, err := s.gitClient.StagedDiff(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNoStagedChanges) {
			s.uiManager.ShowWarning("No staged changes found. Stage files with `git add` or use --add-all.")
			return &Result{Outcome: OutcomeNoChanges}, nil
		}
		return nil, err
	}
	apperrors.Debug("Staged diff: %d bytes", len(diff))

	msg, err := s.generate(ctx, diff)
	if err != nil {
		return nil, err
	}

	if err := s.present(msg); err != nil {
		return nil, err
	}

	if opts.DryRun {
		return &Result{Outcome: OutcomeGenerated, Message: msg}, nil
	}

	if !opts.AutoCommit {
		var proceed bool
		msg, proceed, err = s.decide(ctx, msg)
		if err != nil {
			return nil, err
		}
		if !proceed {
			s.uiManager.ShowInfo("Commit aborted.")
			return &Result{Outcome: OutcomeAborted, Message: msg}, nil
		}
	}

	if err := s.gitClient.Commit(ctx, msg); err != nil {
		return nil, err
	}
	s.uiManager.ShowSuccess("Commit successful")

	result := &Result{Outcome: OutcomeCommitted, Message: msg}
	if opts.Push {
		s.uiManager.ShowStep("Pushing to remote")
		if err := s.gitClient.Push(ctx); err != nil {
			result.PushErr = err
			return result, nil
		}
		result.Pushed = true
		s.uiManager.ShowSuccess("Push successful")
	}

	return result, nil
}

// present shows msg followed by any style warnings.
func (s *CommitService) present(msg string) error {
	if err := s.uiManager.DisplayMessage(msg); err != nil {
		return err
	}
	parsed := message.Parse(msg)
	if parsed.IsConventional() {
		apperrors.Debug("Conventional commit: type=%s scope=%q", parsed.Type, parsed.Scope)
	}
	for _, w := range parsed.Warnings() {
		s.uiManager.ShowWarning(w)
	}
	return nil
}

func (s *CommitService) generate(ctx context.Context, diff string) (string, error) {
	spinner := s.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	defer spinner.Stop()

	msg, err := s.generator.Generate(ctx, diff)
	if err != nil {
		return "", err
	}
	return msg, nil
}

// decide asks the user what to do with msg and returns the message to
// commit and whether to proceed.
func (s *CommitService) decide(ctx context.Context, msg string) (string, bool, error) {
	decision, err := s.uiManager.PromptDecision()
	if err != nil {
		return msg, false, fmt.Errorf("failed to read decision: %w", err)
	}
	apperrors.Debug("Decision: %s", decision)

	switch decision {
	case ui.DecisionYes:
		return msg, true, nil
	case ui.DecisionModify:
		edited, err := s.editor.Edit(ctx, msg)
		if err != nil {
			return msg, false, err
		}
		edited = strings.TrimSpace(edited)
		if edited == "" {
			return msg, false, apperrors.New(apperrors.ErrEmptyCommitMessage, "commit message is empty after editing").
				WithSuggestion("Write a message in the editor, or answer n to abort")
		}
		if err := s.present(edited); err != nil {
			return edited, false, err
		}
		return edited, true, nil
	default:
		return msg, false, nil
	}
}
