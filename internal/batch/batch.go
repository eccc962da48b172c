// Package batch runs one command in each of a list of projects, in order.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/projects"
)

// Options controls how failures and output are handled
type Options struct {
	FailFast   bool // Stop at the first failing project
	ShowOutput bool // Log what each command printed
}

// Step describes the work done in every project
type Step struct {
	// Label is the progress prompt for a project; nil uses DefaultLabel
	Label func(p projects.Project) string
	// Command builds the command to run; Dir is set to the project path
	Command func(p projects.Project) shell.Command
}

// DefaultLabel is the progress prompt used when Step.Label is nil
func DefaultLabel(p projects.Project) string {
	return fmt.Sprintf("Running command in '%s' ('%s')", p.Name, p.Path)
}

// Failure records one project whose command failed
type Failure struct {
	Project projects.Project
	Err     error
}

// Report summarises a finished run
type Report struct {
	Succeeded []projects.Project
	Failed    []Failure
}

// Error is returned when at least one project failed and FailFast was off
type Error struct {
	Command  string
	Failures []Failure
}

func (e *Error) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Project.Name
	}
	return fmt.Sprintf("error while executing command '%s' for %d project(s): %s",
		e.Command, len(e.Failures), strings.Join(names, ", "))
}

func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Runner executes a Step across projects
type Runner struct {
	exec     shell.Executor
	reporter progress.Reporter
}

// NewRunner creates a Runner. A nil reporter shows no progress.
func NewRunner(exec shell.Executor, reporter progress.Reporter) *Runner {
	if reporter == nil {
		reporter = progress.Discard
	}
	return &Runner{exec: exec, reporter: reporter}
}

// Run executes step in each project sequentially.
func (r *Runner) Run(ctx context.Context, list []projects.Project, step Step, opts Options) (Report, error) {
	var report Report

	label := step.Label
	if label == nil {
		label = DefaultLabel
	}

	var command string
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		cmd := step.Command(p)
		cmd.Dir = p.Path
		command = commandText(cmd)

		result, err := progress.Track(r.reporter, label(p), func() (*shell.Result, error) {
			return r.exec.Run(ctx, cmd)
		})

		if opts.ShowOutput {
			out := shell.Output(err)
			if err == nil && result != nil {
				out = result.Stdout
			}
			logger.Info("Output:\n%s\n---", out)
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			if opts.FailFast {
				report.Failed = append(report.Failed, Failure{Project: p, Err: err})
				return report, fmt.Errorf("trying to run command '%s' on project '%s': %w", command, p.Name, err)
			}
			logger.Debug("command '%s' failed in %s: %v", command, p.Path, err)
			report.Failed = append(report.Failed, Failure{Project: p, Err: err})
			continue
		}

		report.Succeeded = append(report.Succeeded, p)
	}

	if len(report.Failed) > 0 {
		return report, &Error{Command: command, Failures: report.Failed}
	}
	return report, nil
}

// commandText is the script for "<shell> -c <script>" commands and the
// full command line otherwise.
func commandText(cmd shell.Command) string {
	if len(cmd.Args) == 2 && cmd.Args[0] == "-c" {
		return cmd.Args[1]
	}
	return cmd.String()
}
