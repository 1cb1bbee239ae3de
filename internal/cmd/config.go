package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/security"
	"github.com/shenxiangzhuang/aic/internal/pkg/ui"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(env *Env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage aic configuration",
		Long: `Manage aic configuration settings.

Values are read from, lowest priority first: built-in defaults, the global
file (~/.config/aic/config.toml), the project file (.aic.toml at or above the
current directory, inside the repository), AIC_* environment variables and
command-line flags.

Keys: ` + strings.Join(config.Keys, ", "),
	}

	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigUnsetCmd())
	configCmd.AddCommand(newConfigSetupCmd(env))
	configCmd.AddCommand(newConfigListCmd(env))
	configCmd.AddCommand(newConfigShowCmd(env))
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

func scopeFlag(cmd *cobra.Command) config.Scope {
	if project, _ := cmd.Flags().GetBool("project"); project {
		return config.ScopeProject
	}
	return config.ScopeGlobal
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a resolved configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			value, err := mgr.Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the global file, or in the project file
with --project. Omitting the value unsets the key.

Examples:
  aic config set api_token sk-xxx
  aic config set model gpt-4o-mini --project
  aic config set api_base_url https://api.deepseek.com
  aic config set model            # unset`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			return setValue(cmd, args[0], value)
		},
	}
	cmd.Flags().Bool("project", false, "Write to the project file")
	return cmd
}

// newConfigUnsetCmd creates the 'config unset' subcommand.
func newConfigUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setValue(cmd, args[0], "")
		},
	}
	cmd.Flags().Bool("project", false, "Remove from the project file")
	return cmd
}

func setValue(cmd *cobra.Command, key, value string) error {
	mgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	key, err = config.NormalizeKey(key)
	if err != nil {
		return err
	}

	scope := scopeFlag(cmd)
	if err := mgr.Set(key, value, scope); err != nil {
		return err
	}
	path, _ := mgr.PathFor(scope)

	out := cmd.OutOrStdout()
	if value == "" {
		fmt.Fprintf(out, "Unset %s in %s\n", key, path)
		return nil
	}
	fmt.Fprintf(out, "Set %s = %s in %s\n", key, security.MaskValue(key, value), path)
	return nil
}

// newConfigSetupCmd creates the 'config setup' subcommand.
func newConfigSetupCmd(env *Env) *cobra.Command {
	values := ui.SetupValues{}
	var defaultPrompt string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save connection settings in one step",
		Long: `Save the API token, base URL, model and prompts.

With no flags on a terminal an interactive form is shown.

Examples:
  aic config setup --api-token sk-xxx
  aic config setup --api-token sk-xxx --api-base-url https://api.deepseek.com --model deepseek-chat
  aic config setup --model gpt-4o-mini --project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if values.SystemPrompt == "" {
				values.SystemPrompt = defaultPrompt
			}

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			scope := scopeFlag(cmd)
			out := cmd.OutOrStdout()

			var saved []string
			switch {
			case !values.Empty():
				saved, err = ui.ApplySetup(mgr, scope, values)
			case isInteractive(env):
				current, loadErr := mgr.Load()
				if loadErr != nil {
					return loadErr
				}
				saved, err = ui.RunInteractiveSetup(mgr, scope, current)
			default:
				printSetupUsage(out)
				return nil
			}
			if err != nil {
				return err
			}

			path, _ := mgr.PathFor(scope)
			if len(saved) == 0 {
				fmt.Fprintln(out, "Nothing changed.")
				return nil
			}
			fmt.Fprintf(out, "Saved to %s:\n", path)
			for _, key := range saved {
				value := fieldValue(values, key)
				if value == "" {
					value, _ = mgr.Get(key)
				}
				if key == config.KeySystemPrompt || key == config.KeyUserPrompt {
					value = ui.Preview(value, ui.PromptPreviewLength)
				}
				fmt.Fprintf(out, "  %s = %s\n", key, security.MaskValue(key, value))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&values.APIToken, "api-token", "", "API token")
	cmd.Flags().StringVar(&values.APIBaseURL, "api-base-url", "", "API base URL")
	cmd.Flags().StringVar(&values.Model, "model", "", "Model name")
	cmd.Flags().StringVar(&values.SystemPrompt, "system-prompt", "", "System prompt")
	cmd.Flags().StringVar(&defaultPrompt, "default-prompt", "", "Alias of --system-prompt")
	cmd.Flags().StringVar(&values.UserPrompt, "user-prompt", "", "User prompt template; {} is replaced by the diff")
	cmd.Flags().Bool("project", false, "Write to the project file")
	_ = cmd.Flags().MarkHidden("default-prompt")
	return cmd
}

func fieldValue(v ui.SetupValues, key string) string {
	switch key {
	case config.KeyAPIToken:
		return v.APIToken
	case config.KeyAPIBaseURL:
		return v.APIBaseURL
	case config.KeyModel:
		return v.Model
	case config.KeySystemPrompt:
		return v.SystemPrompt
	case config.KeyUserPrompt:
		return v.UserPrompt
	}
	return ""
}

func printSetupUsage(w io.Writer) {
	fmt.Fprintln(w, "No configuration values were provided.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  aic config setup --api-token sk-xxx")
	fmt.Fprintln(w, "  aic config setup --api-base-url https://api.deepseek.com --model deepseek-chat")
	fmt.Fprintln(w, "  aic config set model gpt-4o-mini")
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resolved configuration values",
		Long: `Display the resolved value of every key.

The API token is masked and prompts are shortened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			entries, err := mgr.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.RenderConfigTable(entries, false, isInteractive(env)))
			fmt.Fprintf(out, "\nConfig file: %s\n", mgr.GlobalPath())
			return nil
		},
	}
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show resolved values with their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			entries, err := mgr.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.RenderConfigTable(entries, true, isInteractive(env)))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Global:  %s\n", describePath(mgr.GlobalPath()))
			fmt.Fprintf(out, "Project: %s\n", describePath(mgr.ProjectPath()))
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' subcommand.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "global:  %s\n", mgr.GlobalPath())

			project, err := mgr.PathFor(config.ScopeProject)
			if err != nil {
				if !apperrors.HasCode(err, apperrors.ErrNoWritableLocation) {
					return err
				}
				project = "(not in a git repository)"
			}
			fmt.Fprintf(out, "project: %s\n", project)
			return nil
		},
	}
}

func describePath(path string) string {
	if path == "" {
		return "(none)"
	}
	if _, err := os.Stat(path); err == nil {
		return path + " (exists)"
	}
	return path + " (not created)"
}
