package allnighter

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/allnighter/allnighter/internal/config"
	"github.com/allnighter/allnighter/internal/logging"
)

var (
	flagJSON          bool
	flagThreads       int
	flagNoColor       bool
	flagLogLevel      string
	flagLogFormat     string
	flagNoUpdateCheck bool

	version = "0.1.0"
)

// exitCodeError ends the process with code without printing anything more.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// rootCmd is the base Cobra command for the AllNighter CLI.
var rootCmd = &cobra.Command{
	Use:   "allnighter",
	Short: "Find special characters in text files",
	Long: "AllNighter scans text files for accented letters, typographic punctuation and symbols " +
		"and reports every occurrence by file, line and position.",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
}

// Execute runs the AllNighter CLI. It should be called by the main package.
func Execute() {
	err := rootCmd.Execute()
	logging.Sync()
	if err == nil {
		return
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		os.Exit(ec.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON (same as --format json)")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostic log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "diagnostic log format: console|json")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}

// initLogging configures zap from flags, falling back to the config found
// in the working directory.
func initLogging(_ *cobra.Command, _ []string) error {
	var fc config.FileConfig
	if c, err := config.Effective("."); err == nil {
		fc = c
	}
	level := pickString(flagLogLevel, fc.LogLevel, nil)
	if level == "" {
		level = "warn"
	}
	return logging.Init(level, pickString(flagLogFormat, fc.LogFormat, nil))
}
