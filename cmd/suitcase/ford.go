package main

import (
	"fmt"

	"github.com/jeroen-meijer/suitcase/internal/common/config"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/ford"
	"github.com/spf13/cobra"
)

var (
	fordPath           string
	fordIncludeFlutter bool
	fordFailFast       bool
	fordShowOutput     bool
	fordPreset         string
	fordListPresets    bool
)

var fordCmd = &cobra.Command{
	Use:   "ford [flags] -- <command...>",
	Short: "Run a command in every Dart project",
	Long: `Run a shell command in every Dart project found below --path.

The command runs through the configured shell (bash by default) inside each
project directory. Named commands can be kept in presets.toml next to the
config file and run with --preset.`,
	Example: `  suitcase ford -- dart pub get
  suitcase ford --include-flutter-projects=false -- dart test
  suitcase ford --preset analyze`,
	RunE: runFord,
}

func init() {
	fordCmd.Flags().StringVarP(&fordPath, "path", "p", ".", "Directory to search")
	fordCmd.Flags().BoolVarP(&fordIncludeFlutter, "include-flutter-projects", "i", true, "Include Flutter projects")
	fordCmd.Flags().BoolVarP(&fordFailFast, "fail-fast", "f", false, "Stop at the first failing project")
	fordCmd.Flags().BoolVarP(&fordShowOutput, "show-output", "s", false, "Show the output of every command")
	fordCmd.Flags().StringVar(&fordPreset, "preset", "", "Run a command from presets.toml")
	fordCmd.Flags().BoolVar(&fordListPresets, "list-presets", false, "List the commands in presets.toml")

	rootCmd.AddCommand(fordCmd)
}

func runFord(cmd *cobra.Command, args []string) error {
	presets, err := config.LoadPresets(cfg.Dir())
	if err != nil {
		return err
	}

	if fordListPresets {
		return listPresets(cmd, presets)
	}

	opts := ford.Options{
		Command:    args,
		Preset:     fordPreset,
		Path:       fordPath,
		FailFast:   fordFailFast,
		ShowOutput: fordShowOutput,
	}
	if cmd.Flags().Changed("include-flutter-projects") {
		opts.IncludeFlutter = &fordIncludeFlutter
	}

	return ford.New(shell.NewRunner(), newReporter(), cfg, presets).Run(cmd.Context(), opts)
}

func listPresets(cmd *cobra.Command, presets config.Presets) error {
	out := cmd.OutOrStdout()
	if len(presets) == 0 {
		output.PrintInfo("No presets defined in %s", config.PresetsFileName)
		return nil
	}

	for _, name := range presets.Names() {
		p := presets[name]
		fmt.Fprintf(out, "%s  %s\n", output.Project.Sprint(name), p.Command)
		if p.Description != "" {
			fmt.Fprintf(out, "    %s\n", output.Dim.Sprint(p.Description))
		}
	}
	return nil
}
