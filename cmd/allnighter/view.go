package allnighter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/engine"
	"github.com/allnighter/allnighter/internal/report"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/tui"
)

var flagViewBaseline string

func init() {
	cmd := &cobra.Command{
		Use:   "view [paths...]",
		Short: "Scan and browse the matches in an interactive viewer",
		RunE:  runView,
	}
	rootCmd.AddCommand(cmd)

	addSelectionFlags(cmd)
	cmd.Flags().StringVar(&flagViewBaseline, "baseline", "", "baseline file that 'b' records reviewed matches in (default "+report.DefaultBaselinePath+")")
}

func runView(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("view needs an interactive terminal; use 'allnighter scan' instead")
	}
	cfg, fc, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	sess := session.New()
	rescan := func(ctx context.Context) error {
		_, err := engine.Run(ctx, cfg, sess, nil)
		return err
	}
	if err := rescan(ctxOf(cmd)); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	basePath := pickString(flagViewBaseline, fc.Baseline, nil)
	if basePath == "" {
		basePath = report.DefaultBaselinePath
	}
	base, err := loadBaseline(basePath)
	if err != nil {
		return err
	}
	return tui.Run(sess, tui.Options{
		Baseline:     base,
		BaselinePath: basePath,
		ExportDir:    configRoot(args),
		Rescan:       rescan,
	})
}
