package main

import (
	"github.com/jeroen-meijer/suitcase/internal/common/browser"
	"github.com/jeroen-meijer/suitcase/internal/common/git"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/repo"
	"github.com/spf13/cobra"
)

var (
	ghoRemote string
	ghoPrint  bool
)

var ghoCmd = &cobra.Command{
	Use:   "gho [path]",
	Short: "Open the Git repository's remote in the browser",
	Long: `Open the web page of a Git repository's remote in the default browser.

The repository is the one containing path (default: the current directory).
SSH remotes such as git@github.com:owner/repo.git are opened as
https://github.com/owner/repo. Set browser.command in the config file to use
a specific browser.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGho,
}

func init() {
	ghoCmd.Flags().StringVar(&ghoRemote, "remote", repo.DefaultRemote, "Remote to open")
	ghoCmd.Flags().BoolVar(&ghoPrint, "print", false, "Print the URL instead of opening it")

	rootCmd.AddCommand(ghoCmd)
}

func runGho(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	exec := shell.NewRunner()
	opener := repo.NewOpener(
		func(dir string) git.GitExecutor { return git.NewGitRunner(dir, exec) },
		browser.NewSystemOpener(exec, cfg.Browser.Command),
		newReporter(),
		cmd.OutOrStdout(),
	)

	_, err := opener.Open(cmd.Context(), repo.Options{
		Path:      path,
		Remote:    ghoRemote,
		PrintOnly: ghoPrint,
	})
	return err
}
