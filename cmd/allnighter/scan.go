package allnighter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/config"
	"github.com/allnighter/allnighter/internal/engine"
	"github.com/allnighter/allnighter/internal/report"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/types"
	"github.com/allnighter/allnighter/internal/update"
)

// file selection flags, shared by scan, view and baseline update
var (
	flagInclude         string
	flagExclude         string
	flagMaxBytes        int64
	flagExt             string
	flagMaxFiles        int
	flagLatin1          bool
	flagDefaultExcludes bool
)

var (
	flagFormat      string
	flagCopy        bool
	flagExport      string
	flagFailOnCount int
	flagBaseline    string
	flagDryRun      bool
)

// copyToClipboard is swapped in tests; headless CI has no clipboard.
var copyToClipboard = clipboard.WriteAll

var formats = []string{"table", "text", "json", "sarif", "plain", "csv", "clipboard"}

func init() {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files and directories for special characters",
		Example: `  allnighter scan .
  allnighter scan --format csv --export report.csv docs/
  allnighter scan --format sarif --fail-on-count 1 site/`,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	addSelectionFlags(cmd)
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: "+strings.Join(formats, "|")+" (default table)")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the per-file summary to the clipboard")
	cmd.Flags().StringVar(&flagExport, "export", "", "write the session to this file (.csv as CSV, anything else as plain text)")
	cmd.Flags().IntVar(&flagFailOnCount, "fail-on-count", 0, "exit 1 when at least this many matches are reported (0 = never)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file of reviewed matches (default "+report.DefaultBaselinePath+")")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the files that would be scanned without opening them")
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = 5 MiB)")
	cmd.Flags().StringVar(&flagExt, "ext", "", "comma-separated allowed extensions (default .txt,.html,.htm,.css,.js,.xml,.csv)")
	cmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "refuse batches larger than this (0 = unlimited)")
	cmd.Flags().BoolVar(&flagLatin1, "latin1", false, "decode files that are not valid UTF-8 as Latin-1")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, .git, etc.)")
}

// buildConfig resolves the engine configuration for paths with the
// precedence CLI > local config > global config.
func buildConfig(cmd *cobra.Command, paths []string) (engine.Config, config.FileConfig, error) {
	fc, err := config.Effective(configRoot(paths))
	if err != nil {
		return engine.Config{}, fc, fmt.Errorf("load config: %w", err)
	}
	defaultExcludes := flagDefaultExcludes
	if !cmd.Flags().Changed("default-excludes") && fc.DefaultExcludes != nil {
		defaultExcludes = *fc.DefaultExcludes
	}
	cfg := engine.Config{
		Paths:           paths,
		IncludeGlobs:    pickString(flagInclude, fc.Include, nil),
		ExcludeGlobs:    pickString(flagExclude, fc.Exclude, nil),
		MaxBytes:        pickInt64(flagMaxBytes, fc.MaxBytes, nil),
		Extensions:      pickList(flagExt, fc.Extensions),
		MaxFiles:        pickInt(flagMaxFiles, fc.MaxFiles, nil),
		Threads:         pickInt(flagThreads, fc.Threads, nil),
		DefaultExcludes: defaultExcludes,
		Latin1Fallback:  pickBool(flagLatin1, fc.Latin1Fallback, nil),
	}
	return cfg, fc, nil
}

func resolveFormat(fc config.FileConfig) (string, error) {
	if flagJSON {
		return "json", nil
	}
	f := strings.ToLower(pickString(flagFormat, fc.Format, nil))
	if f == "" {
		return "table", nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want %s)", f, strings.Join(formats, "|"))
}

// loadBaseline reads path; a missing file is an empty baseline.
func loadBaseline(path string) (report.Baseline, error) {
	base, err := report.LoadBaseline(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return base, err
	}
	return base, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	cfg, fc, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	format, err := resolveFormat(fc)
	if err != nil {
		return err
	}
	noColor := pickBool(flagNoColor, fc.NoColor, nil) || !isTerminal(os.Stdout)
	human := format == "table" || format == "text"

	if human && !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(ctxOf(cmd), version, false); newer && latest != "" {
			fmt.Fprintf(errOut, "(new version available: v%s)  run 'allnighter update' to upgrade\n", latest)
		}
	}

	if flagDryRun {
		cfg.DryRun = true
		res, err := engine.Run(ctxOf(cmd), cfg, nil, nil)
		if err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		for _, o := range res.Outcomes {
			if o.Err != nil {
				fmt.Fprintf(out, "skip: %s (%v)\n", o.Path, o.Err)
				continue
			}
			fmt.Fprintln(out, o.Path)
		}
		return nil
	}

	if human && isTerminal(os.Stderr) {
		cfg.Progress = func(done, total int) {
			if done%10 == 0 || done == total {
				fmt.Fprintf(errOut, "\r[%d/%d] %.0f%%", done, total, float64(done)/float64(total)*100)
			}
		}
	}
	res, err := engine.Run(ctxOf(cmd), cfg, session.New(), nil)
	if cfg.Progress != nil {
		fmt.Fprintln(errOut)
	}
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	for _, e := range res.Errors() {
		fmt.Fprintln(errOut, "warning:", e)
	}

	basePath := pickString(flagBaseline, fc.Baseline, nil)
	if basePath == "" {
		basePath = report.DefaultBaselinePath
	}
	base, err := loadBaseline(basePath)
	if err != nil {
		return err
	}
	results := report.FilterNew(res.Results(), base)
	reported := session.New()
	for _, r := range results {
		reported.Add(r)
	}

	opts := report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned, Failed: res.Failed}
	if err := writeResults(out, errOut, format, reported, opts); err != nil {
		return err
	}
	if flagCopy {
		switch err := copySummary(reported); {
		case session.IsEmpty(err):
			fmt.Fprintln(errOut, "No results to copy")
		case err != nil:
			return err
		default:
			fmt.Fprintf(errOut, "Copied summary of %d files to clipboard\n", reported.Len())
		}
	}
	if flagExport != "" {
		switch err := exportSession(reported, flagExport); {
		case session.IsEmpty(err):
			fmt.Fprintln(errOut, "No results to export")
		case err != nil:
			return err
		default:
			fmt.Fprintf(errOut, "Exported %d files to %s\n", reported.Len(), flagExport)
		}
	}

	if report.ShouldFail(results, pickInt(flagFailOnCount, fc.FailOnCount, nil)) {
		return &exitCodeError{code: 1}
	}
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// writeResults renders sess in format. The three session serializers
// report an empty session on errOut rather than failing the command.
func writeResults(out, errOut io.Writer, format string, sess *session.Aggregator, opts report.PrintOptions) error {
	results := sess.Results()
	if results == nil {
		results = []types.FileScanResult{}
	}
	var text string
	var err error
	switch format {
	case "json":
		return report.WriteJSON(out, results)
	case "sarif":
		if err := report.WriteSARIF(out, results, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
		return nil
	case "text":
		report.PrintText(out, results, opts)
		return nil
	case "plain":
		text, err = sess.ToPlainText()
	case "csv":
		text, err = sess.ToCSV()
	case "clipboard":
		text, err = sess.ToClipboardText()
	default:
		report.PrintTable(out, results, opts)
		return nil
	}
	if session.IsEmpty(err) {
		fmt.Fprintln(errOut, "No files scanned")
		return nil
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

func copySummary(sess *session.Aggregator) error {
	text, err := sess.ToClipboardText()
	if err != nil {
		return err
	}
	if err := copyToClipboard(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// exportSession writes sess to path, as CSV when the extension is .csv and
// as plain text otherwise.
func exportSession(sess *session.Aggregator, path string) error {
	var text string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		text, err = sess.ToCSV()
	} else {
		text, err = sess.ToPlainText()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
