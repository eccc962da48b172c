package main

import (
	"fmt"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/batch"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/projects"
	"github.com/spf13/cobra"
)

var (
	projectsPath      string
	projectsKind      string
	projectsPathsOnly bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List Dart and Flutter projects",
	Long: `List every directory containing a pubspec.yaml below --path.

Platform folders (ios, android, ...), build output and tool caches are not
searched. Add more folder names under projects.ignored_folders in the config.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().StringVarP(&projectsPath, "path", "p", ".", "Directory to search")
	projectsCmd.Flags().StringVarP(&projectsKind, "kind", "k", "all", "Project kind: all, dart or flutter")
	projectsCmd.Flags().BoolVar(&projectsPathsOnly, "paths", false, "Print only project paths")

	rootCmd.AddCommand(projectsCmd)
}

// parseKind maps the --kind flag to a projects.Kind
func parseKind(s string) (projects.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return projects.KindAll, nil
	case "dart":
		return projects.KindDart, nil
	case "flutter":
		return projects.KindFlutter, nil
	default:
		return projects.KindAll, fmt.Errorf("invalid project kind %q (want all, dart or flutter)", s)
	}
}

func runProjects(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(projectsKind)
	if err != nil {
		return err
	}

	found, err := batch.Discover(newReporter(), projectsPath, kind, cfg.Projects.IgnoredFolders)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range found {
		if projectsPathsOnly {
			fmt.Fprintln(out, p.Path)
			continue
		}
		line := fmt.Sprintf("%s %s %s", output.FormatKind(p.IsFlutter), output.Project.Sprint(p.Name), output.Dim.Sprint(p.Path))
		if p.PackageName != p.Name {
			line += output.Dim.Sprintf(" (package %s)", p.PackageName)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
