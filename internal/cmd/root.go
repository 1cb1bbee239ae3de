// Package cmd contains the CLI command definitions for aic.
package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/runner"
	"github.com/shenxiangzhuang/aic/internal/pkg/ui"
)

// BuildInfo is stamped into the binary with ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Env holds the streams and collaborators the commands run against.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Runner executes git and the editor.
	Runner runner.Runner
	// HTTPClient replaces the API client's transport when set.
	HTTPClient openai.HTTPDoer
	// Interactive reports whether stdin and stdout are terminals.
	Interactive func() bool
}

// DefaultEnv returns an Env bound to the process.
func DefaultEnv() *Env {
	return &Env{
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Runner: runner.NewExecRunner(),
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// NewRootCmd creates the root command for the aic CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	return NewRootCmdWithEnv(BuildInfo{Version: version, Commit: commitHash, Date: date}, DefaultEnv())
}

// NewRootCmdWithEnv creates the root command running against env.
func NewRootCmdWithEnv(info BuildInfo, env *Env) *cobra.Command {
	flags := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "aic",
		Short: "AI-powered git commit message generator",
		Long: `aic generates a commit message for your staged changes with an
OpenAI-compatible chat completion API, shows it as a git commit command
and asks whether to commit, edit the message first, or abort.

Examples:
  aic                 # Generate for staged changes and ask
  aic -a -c           # Stage everything and commit without asking
  aic -a -c -p        # ...and push
  aic --dry-run       # Only print the message`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetOutput(env.Err)
			apperrors.SetVerbose(verbose)
			return nil
		},
		// Default action is to run the generate command
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, env, flags)
		},
	}

	rootCmd.SetVersionTemplate(versionText(info))
	rootCmd.SetIn(env.In)
	rootCmd.SetOut(env.Out)
	rootCmd.SetErr(env.Err)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.New(apperrors.ErrInvalidArguments, err.Error()).
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Global config file path (default: ~/.config/aic/config.toml)")
	rootCmd.PersistentFlags().StringP("directory", "C", "", "Run as if aic was started in this directory")

	addGenerateFlags(rootCmd, flags)
	// Registered here rather than in Execute so argument parsing knows
	// --version and --help take no value.
	rootCmd.InitDefaultHelpFlag()
	rootCmd.InitDefaultVersionFlag()

	rootCmd.AddCommand(NewGenerateCmd(env))
	rootCmd.AddCommand(NewConfigCmd(env))
	rootCmd.AddCommand(NewPingCmd(env))
	rootCmd.AddCommand(NewVersionCmd(info))

	return rootCmd
}

// workDir returns the absolute -C directory, or "" for the current directory.
func workDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("directory")
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInvalidArguments, "invalid directory "+dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", apperrors.New(apperrors.ErrInvalidArguments, "not a directory: "+dir)
	}
	return abs, nil
}

// newConfigManager builds the configuration manager from the global flags.
func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dir, err := workDir(cmd)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}
	return config.NewManager(config.Options{GlobalPath: configPath, WorkDir: dir})
}

// newUIManager picks the styled manager on a terminal and the plain one otherwise.
func newUIManager(env *Env) ui.Manager {
	if isInteractive(env) {
		return ui.NewDefaultManager(env.In, env.Out, true)
	}
	return ui.NewPlainManager(env.In, env.Out)
}

func isInteractive(env *Env) bool {
	return env.Interactive != nil && env.Interactive()
}
