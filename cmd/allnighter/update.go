package allnighter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/update"
)

func init() {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update allnighter to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			updated, latest, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			if !updated {
				fmt.Fprintf(cmd.OutOrStdout(), "already up to date (v%s)\n", latest)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s\n", latest)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "allnighter v%s\n", currentVersion())
			if flagNoUpdateCheck {
				return nil
			}
			if latest, newer, _ := update.Check(ctxOf(cmd), version, false); newer {
				fmt.Fprintf(cmd.OutOrStdout(), "new version available: v%s\n", latest)
			}
			return nil
		},
	}

	rootCmd.AddCommand(updateCmd, versionCmd)
}
