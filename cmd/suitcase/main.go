package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jeroen-meijer/suitcase/internal/common/config"
	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/spf13/cobra"
)

// skipConfig marks commands that run without loading config.yaml
const skipConfig = "skip-config"

var (
	verbose    bool
	quiet      bool
	noColor    bool
	logFile    bool
	configPath string

	// cfg is loaded before every command that needs it
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "suitcase",
	Short: "Personal developer toolbox",
	Long: `A collection of tools for everyday development chores: opening repositories
in the browser, running commands across Dart and Flutter projects and pinning
Flutter versions with FVM.

Every subcommand can also be run through a binary or symlink named after it,
e.g. "gho" behaves like "suitcase gho".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if logFile {
			if err := logger.Default().EnableFileLogging(); err != nil {
				return fmt.Errorf("enabling log file: %w", err)
			}
		}

		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}

		loaded, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", loaded.Path(), err)
		}
		logger.Debug("loaded config from %s", loaded.Path())
		cfg = loaded
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Append log lines to the suitcase log file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/suitcase/config.yaml)")
}

// newReporter returns the progress reporter for the current flags
func newReporter() progress.Reporter {
	term := progress.NewTerminal(os.Stderr)
	term.SetQuiet(quiet)
	return term
}

// aliasArgs maps argv to the arguments for rootCmd. When the executable is
// named after a subcommand or one of its aliases (e.g. a "gho" symlink),
// that subcommand is prepended.
func aliasArgs(argv []string, root *cobra.Command) []string {
	if len(argv) == 0 {
		return nil
	}

	base := filepath.Base(argv[0])
	base = strings.TrimSuffix(base, filepath.Ext(base))
	rest := argv[1:]

	if base == root.Name() {
		return rest
	}
	for _, sub := range root.Commands() {
		if sub.Name() == base || sub.HasAlias(base) {
			return append([]string{sub.Name()}, rest...)
		}
	}
	return rest
}

// run executes rootCmd with args and closes the log file, even when the
// command fails.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Debug("command failed: %v", err)
	}
	logger.Default().Close()
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, aliasArgs(os.Args, rootCmd))
	stop()

	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}
}
