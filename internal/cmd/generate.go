package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shenxiangzhuang/aic/internal/app"
	"github.com/shenxiangzhuang/aic/internal/pkg/ai"
	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	"github.com/shenxiangzhuang/aic/internal/pkg/editor"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/git"
)

// generateFlags holds the flags shared by the root and generate commands.
type generateFlags struct {
	AddAll  bool
	Execute bool
	Push    bool
	DryRun  bool
	Prompt  string
	Model   string
	APIBase string
}

func addGenerateFlags(cmd *cobra.Command, f *generateFlags) {
	cmd.Flags().BoolVarP(&f.AddAll, "add-all", "a", false, "Stage all changes before generating")
	cmd.Flags().BoolVarP(&f.Execute, "execute", "c", false, "Commit without asking for confirmation")
	cmd.Flags().BoolVarP(&f.Push, "push", "p", false, "Push after a successful commit")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "Print the generated message without committing")
	cmd.Flags().StringVar(&f.Prompt, "prompt", "", "System prompt for this run")
	cmd.Flags().StringVar(&f.Model, "model", "", "Model for this run")
	cmd.Flags().StringVar(&f.APIBase, "api-base", "", "API base URL for this run")
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(env *Env) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for staged changes",
		Long: `Generate a commit message for the staged changes and optionally commit it.

This is the same as running aic without a subcommand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, env, flags)
		},
	}
	addGenerateFlags(cmd, flags)
	return cmd
}

// runGenerate executes the commit flow.
func runGenerate(cmd *cobra.Command, env *Env, flags *generateFlags) error {
	if len(cmd.Flags().Args()) > 0 {
		return apperrors.New(apperrors.ErrInvalidArguments, "unexpected argument "+cmd.Flags().Arg(0)).
			WithSuggestion("Run 'aic --help' for usage")
	}

	cfgMgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}

	// Flags take the highest priority and are not persisted.
	overrides := map[string]string{
		config.KeySystemPrompt: flags.Prompt,
		config.KeyModel:        flags.Model,
		config.KeyAPIBaseURL:   flags.APIBase,
	}
	for key, value := range overrides {
		if err := cfgMgr.SetOverride(key, value); err != nil {
			return err
		}
		if value != "" && key != config.KeySystemPrompt {
			apperrors.Debug("%s overridden via flag: %s", key, value)
		}
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	apperrors.Info("Using model: %s", cfg.Model)
	apperrors.Info("Using API base URL: %s", cfg.APIBaseURL)

	settings := ai.SettingsFromConfig(cfg)
	settings.HTTPClient = env.HTTPClient
	generator, err := ai.NewClient(settings)
	if err != nil {
		return err
	}

	dir, err := workDir(cmd)
	if err != nil {
		return err
	}

	uiMgr := newUIManager(env)
	uiMgr.ShowHeader()

	svc := app.NewCommitService(
		git.NewClientWithRunner(env.Runner, dir),
		generator,
		uiMgr,
		editor.New(env.Runner),
		cfg,
	)

	result, err := svc.Run(cmd.Context(), app.CommitOptions{
		StageAll:   flags.AddAll,
		AutoCommit: flags.Execute,
		Push:       flags.Push,
		DryRun:     flags.DryRun,
	})
	if err != nil {
		return err
	}
	apperrors.Debug("Outcome: %s", result.Outcome)

	if result.PushErr != nil {
		uiMgr.ShowWarning("The commit was created, but pushing it failed.")
		return result.PushErr
	}
	return nil
}
