package main

import (
	"fmt"

	"github.com/jeroen-meijer/suitcase/internal/common/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Annotations: map[string]string{skipConfig: "true"},
	Args:        cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

func init() {
	rootCmd.Version = version.Short()
	rootCmd.AddCommand(versionCmd)
}
