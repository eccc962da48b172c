// Package ford runs a shell command in every Dart project under a directory.
package ford

import (
	"context"
	"errors"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/batch"
	"github.com/jeroen-meijer/suitcase/internal/common/config"
	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/projects"
)

var (
	ErrNoCommand        = errors.New("no command given (pass one after -- or use --preset)")
	ErrConflictingInput = errors.New("a command and --preset cannot be used together")
)

// Options for a ford run
type Options struct {
	Command []string // Words joined with spaces into the script
	Preset  string   // Name of a presets.toml entry, used instead of Command
	Path    string   // Search root; defaults to "."
	// IncludeFlutter adds Flutter projects. nil falls back to the preset's
	// flutter setting and then to true.
	IncludeFlutter *bool
	FailFast       bool
	ShowOutput     bool
}

// Runner runs commands across projects
type Runner struct {
	exec     shell.Executor
	reporter progress.Reporter
	cfg      *config.Config
	presets  config.Presets
}

// New creates a Runner. cfg may be nil for defaults.
func New(exec shell.Executor, reporter progress.Reporter, cfg *config.Config, presets config.Presets) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if reporter == nil {
		reporter = progress.Discard
	}
	return &Runner{exec: exec, reporter: reporter, cfg: cfg, presets: presets}
}

// Run finds the projects under opts.Path and runs the command in each
func (r *Runner) Run(ctx context.Context, opts Options) error {
	script, includeFlutter, err := r.resolve(opts)
	if err != nil {
		return err
	}

	kind := projects.KindDart
	if includeFlutter {
		kind = projects.KindAll
	}

	found, err := batch.Discover(r.reporter, opts.Path, kind, r.cfg.Projects.IgnoredFolders)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}

	logger.Debug("running '%s' with %s in %d projects", script, r.cfg.ShellOrDefault(), len(found))

	step := batch.Step{
		Command: func(p projects.Project) shell.Command {
			return shell.ShellCommand(r.cfg.ShellOrDefault(), script, p.Path)
		},
	}

	report, err := batch.NewRunner(r.exec, r.reporter).Run(ctx, found, step, batch.Options{
		FailFast:   opts.FailFast,
		ShowOutput: opts.ShowOutput,
	})
	if err != nil {
		return err
	}

	logger.Info("Ran '%s' in %d projects", script, len(report.Succeeded))
	return nil
}

// resolve picks the script and whether Flutter projects are included
func (r *Runner) resolve(opts Options) (string, bool, error) {
	script := strings.TrimSpace(strings.Join(opts.Command, " "))
	includeFlutter := true

	if opts.Preset != "" {
		if script != "" {
			return "", false, ErrConflictingInput
		}
		preset, err := r.presets.Get(opts.Preset)
		if err != nil {
			return "", false, err
		}
		script = preset.Command
		if preset.Flutter != nil {
			includeFlutter = *preset.Flutter
		}
	}

	if script == "" {
		return "", false, ErrNoCommand
	}
	if opts.IncludeFlutter != nil {
		includeFlutter = *opts.IncludeFlutter
	}
	return script, includeFlutter, nil
}
