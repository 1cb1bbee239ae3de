package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenxiangzhuang/aic/internal/pkg/ai"
	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

// NewPingCmd creates the ping command.
func NewPingCmd(env *Env) *cobra.Command {
	var model, apiBase string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check the API connection and credentials",
		Long: `Send a minimal chat completion request with the configured token,
base URL and model. No diff is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			if err := cfgMgr.SetOverride(config.KeyModel, model); err != nil {
				return err
			}
			if err := cfgMgr.SetOverride(config.KeyAPIBaseURL, apiBase); err != nil {
				return err
			}

			cfg, err := cfgMgr.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireToken(); err != nil {
				return err
			}

			settings := ai.SettingsFromConfig(cfg)
			settings.HTTPClient = env.HTTPClient
			client, err := ai.NewClient(settings)
			if err != nil {
				return err
			}

			uiMgr := newUIManager(env)
			spinner := uiMgr.ShowSpinner(fmt.Sprintf("Contacting %s...", client.Endpoint()))
			spinner.Start()
			err = client.Ping(cmd.Context())
			spinner.Stop()
			if err != nil {
				return err
			}

			apperrors.Debug("ping ok: %s", client.Endpoint())
			uiMgr.ShowSuccess(fmt.Sprintf("API connection OK (%s, %s)", client.Model(), cfg.APIBaseURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model to ping with")
	cmd.Flags().StringVar(&apiBase, "api-base", "", "API base URL to ping")
	return cmd
}
