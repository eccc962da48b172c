package main

import (
	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/selfupdate"
	"github.com/spf13/cobra"
)

var (
	updateCheck   bool
	updateVersion string
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"upgrade"},
	Short:   "Update suitcase to the latest version",
	Long: `Reinstall suitcase with go install.

When update.source (or SUITCASE_UPDATE_SOURCE) points at a local checkout,
suitcase is built from there. Otherwise the module proxy is used.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "Compare the installed build with the latest version without installing")
	updateCmd.Flags().StringVar(&updateVersion, "version", selfupdate.DefaultVersion, "Module version to install")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	source, err := cfg.UpdateSource()
	if err != nil {
		return err
	}

	updater := selfupdate.NewUpdater(shell.NewRunner(), newReporter())
	result, err := updater.Update(cmd.Context(), selfupdate.Options{
		Package:   cfg.UpdatePackage(),
		Version:   updateVersion,
		Source:    source,
		CheckOnly: updateCheck,
	})
	if err != nil {
		return err
	}

	if updateCheck {
		b := result.Before
		logger.Debug("installed build: %s %s %s", b.Path, b.Version, b.Sum)
		output.PrintInfo("%s", result.CheckSummary())
		return nil
	}

	output.PrintSuccess("%s", result.Summary())
	return nil
}
