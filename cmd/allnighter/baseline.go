package allnighter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/engine"
	"github.com/allnighter/allnighter/internal/report"
	"github.com/allnighter/allnighter/internal/types"
)

var flagBaselineOut string

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update [paths...]",
		Short: "Record every current match as reviewed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fc, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			res, err := engine.Run(ctxOf(cmd), cfg, nil, nil)
			if err != nil {
				return fmt.Errorf("scan error: %w", err)
			}
			path := pickString(flagBaselineOut, fc.Baseline, nil)
			if path == "" {
				path = report.DefaultBaselinePath
			}
			results := res.Results()
			if err := report.SaveBaseline(path, results); err != nil {
				return fmt.Errorf("save baseline: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d matches recorded in %s\n", types.TotalMatches(results), path)
			return nil
		},
	}
	addSelectionFlags(update)
	update.Flags().StringVar(&flagBaselineOut, "output", "", "baseline file to write (default "+report.DefaultBaselinePath+")")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
