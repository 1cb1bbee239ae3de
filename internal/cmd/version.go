package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionText(info BuildInfo) string {
	return fmt.Sprintf("aic %s\nCommit: %s\nBuilt:  %s\n", info.Version, info.Commit, info.Date)
}

// NewVersionCmd creates the version command.
func NewVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), versionText(info))
			return err
		},
	}
}
