package main

import (
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/fvm"
	"github.com/spf13/cobra"
)

var (
	fuaPath        string
	fuaIncludeDart bool
	fuaFailFast    bool
	fuaShowOutput  bool
)

var fuaCmd = &cobra.Command{
	Use:   "fua <version>",
	Short: "Set the FVM Flutter version in every Flutter project",
	Long: `Install a Flutter SDK version with FVM and run "fvm use <version>" in every
Flutter project found below --path.`,
	Example: `  suitcase fua 3.22.0
  suitcase fua stable --include-dart-projects`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFua,
}

func init() {
	fuaCmd.Flags().StringVarP(&fuaPath, "path", "p", ".", "Directory to search")
	fuaCmd.Flags().BoolVarP(&fuaIncludeDart, "include-dart-projects", "i", false, "Also set the version in Dart projects (uses --force)")
	fuaCmd.Flags().BoolVarP(&fuaFailFast, "fail-fast", "f", false, "Stop at the first failing project")
	fuaCmd.Flags().BoolVarP(&fuaShowOutput, "show-output", "s", false, "Show the output of every command")

	rootCmd.AddCommand(fuaCmd)
}

func runFua(cmd *cobra.Command, args []string) error {
	var version string
	if len(args) == 1 {
		version = args[0]
	}

	return fvm.NewManager(shell.NewRunner(), newReporter(), cfg).Use(cmd.Context(), fvm.Options{
		Version:     version,
		Path:        fuaPath,
		IncludeDart: fuaIncludeDart,
		FailFast:    fuaFailFast,
		ShowOutput:  fuaShowOutput,
	})
}
