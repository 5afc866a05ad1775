package allnighter

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/config"
	"github.com/allnighter/allnighter/internal/validate"
)

var (
	cfgOutput          string
	cfgForce           bool
	cfgThreads         int
	cfgMaxBytes        int64
	cfgExt             string
	cfgLatin1          bool
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgFormat          string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .allnighter.yml with the default options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".allnighter.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", validate.DefaultMaxBytes, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgExt, "ext", "", "comma-separated allowed extensions (default built-in list)")
	initCmd.Flags().BoolVar(&cfgLatin1, "latin1", false, "decode non UTF-8 files as Latin-1")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().StringVar(&cfgFormat, "format", "table", "default scan output format")

	showCmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective configuration for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := config.Effective(configRoot(args))
			if err != nil {
				return err
			}
			b, err := config.Marshal(fc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	exts := splitList(cfgExt)
	if len(exts) == 0 {
		exts = validate.DefaultExtensions
	}
	fc := config.FileConfig{
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Extensions:      exts,
		Threads:         intPtr(cfgThreads),
		Latin1Fallback:  boolPtr(cfgLatin1),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		NoColor:         boolPtr(cfgNoColor),
		Format:          optStrPtr(cfgFormat),
	}
	b, err := config.Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func optStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool     { return &v }
