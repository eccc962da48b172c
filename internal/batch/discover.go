package batch

import (
	"fmt"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/projects"
)

// Discover finds the projects of kind under path, logging the summary.
// An empty result also logs "No projects found" and is not an error.
func Discover(reporter progress.Reporter, path string, kind projects.Kind, ignored []string) ([]projects.Project, error) {
	if reporter == nil {
		reporter = progress.Discard
	}
	if path == "" {
		path = "."
	}

	result, err := progress.Track(reporter, "Finding Dart projects", func() (*projects.Result, error) {
		return projects.Find(path, projects.Options{ExtraIgnored: ignored})
	})
	if err != nil {
		return nil, fmt.Errorf("trying to find Dart projects in path '%s': %w", path, err)
	}

	for _, s := range result.Skipped {
		output.Warn("Skipping project at '%s': %v", s.Path, s.Err)
	}

	found := projects.Filter(result.Projects, kind)
	logger.Info("%s", projects.Summary(kind, len(found)))
	if len(found) == 0 {
		logger.Info("No projects found")
		return nil, nil
	}
	return found, nil
}

