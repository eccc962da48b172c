// Package fvm pins a Flutter SDK version in every Flutter project under a
// directory using Flutter Version Management.
package fvm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/batch"
	"github.com/jeroen-meijer/suitcase/internal/common/config"
	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/projects"
)

var ErrNoVersion = errors.New("no Flutter version given")

// Options for Use
type Options struct {
	Version     string
	Path        string // Search root; defaults to "."
	IncludeDart bool   // Also pin Dart projects, which needs "fvm use --force"
	FailFast    bool
	ShowOutput  bool
}

// Manager runs fvm through an Executor
type Manager struct {
	exec     shell.Executor
	reporter progress.Reporter
	cfg      *config.Config
}

// NewManager creates a Manager. cfg may be nil for defaults.
func NewManager(exec shell.Executor, reporter progress.Reporter, cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	if reporter == nil {
		reporter = progress.Discard
	}
	return &Manager{exec: exec, reporter: reporter, cfg: cfg}
}

// InstallCommand is "fvm install <version>"
func (m *Manager) InstallCommand(version, dir string) shell.Command {
	return shell.Command{Name: m.cfg.FVMBinary(), Args: []string{"install", version}, Dir: dir}
}

// UseCommand is "fvm use <version>", with --force when force is set and
// the configured extra flags appended.
func (m *Manager) UseCommand(version string, force bool) shell.Command {
	args := []string{"use", version}
	if force {
		args = append(args, "--force")
	}
	args = append(args, m.cfg.FVM.UseFlags...)
	return shell.Command{Name: m.cfg.FVMBinary(), Args: args}
}

// Use installs opts.Version once and then runs "fvm use" in every project
func (m *Manager) Use(ctx context.Context, opts Options) error {
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		return ErrNoVersion
	}

	kind := projects.KindFlutter
	if opts.IncludeDart {
		kind = projects.KindAll
	}

	root := opts.Path
	if root == "" {
		root = "."
	}

	found, err := batch.Discover(m.reporter, root, kind, m.cfg.Projects.IgnoredFolders)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}

	err = progress.Do(m.reporter, fmt.Sprintf("Ensuring Flutter version '%s' is installed", version), func() error {
		_, err := m.exec.Run(ctx, m.InstallCommand(version, root))
		return err
	})
	if err != nil {
		return fmt.Errorf("trying to install Flutter version '%s' using FVM: %w", version, err)
	}

	use := m.UseCommand(version, opts.IncludeDart)
	logger.Info("Running command '%s' in %d projects...", use, len(found))

	step := batch.Step{
		Label: func(p projects.Project) string {
			return fmt.Sprintf("Setting FVM version in '%s' ('%s')", p.Name, p.Path)
		},
		Command: func(projects.Project) shell.Command {
			return use
		},
	}

	_, err = batch.NewRunner(m.exec, m.reporter).Run(ctx, found, step, batch.Options{
		FailFast:   opts.FailFast,
		ShowOutput: opts.ShowOutput,
	})
	return err
}
