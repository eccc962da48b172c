// Package shell runs external programs and maps their failures to typed errors.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
)

// ErrCommandFailed is wrapped by every error returned from an Executor
// when the program could not be started or exited with a non-zero status.
var ErrCommandFailed = errors.New("command failed")

// Command describes a single program invocation
type Command struct {
	Name string
	Args []string
	Dir  string   // Working directory; empty means the current one
	Env  []string // Extra KEY=VALUE pairs appended to the process environment
}

// String renders the command line as it would be typed
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ShellCommand builds "<shell> -c <script>" to run in dir
func ShellCommand(shell, script, dir string) Command {
	if shell == "" {
		shell = "bash"
	}
	return Command{Name: shell, Args: []string{"-c", script}, Dir: dir}
}

// Result holds what a finished program wrote and how it exited
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs commands on the host system.
// This interface allows for mocking subprocesses in tests.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// StartError is returned when a program could not be started at all
type StartError struct {
	Command Command
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start shell: %v (ran: '%s')", e.Err, e.Command)
}

func (e *StartError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// ExitError is returned when a program exits with a non-zero status
type ExitError struct {
	Command  Command
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewExitError builds an ExitError, mostly for use by fake executors
func NewExitError(cmd Command, code int, stdout, stderr string) *ExitError {
	return &ExitError{Command: cmd, ExitCode: code, Stdout: stdout, Stderr: stderr}
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("failed to execute command (ran: '%s', got status: %d)", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return ErrCommandFailed
}

// Output renders what a failed command printed: stdout and stderr separated
// by "---" for a non-zero exit, the cause for a start failure.
func Output(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Stdout + "\n---\n" + exitErr.Stderr
	}
	var startErr *StartError
	if errors.As(err, &startErr) {
		return startErr.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Runner executes commands with os/exec
type Runner struct{}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes cmd and waits for it to finish.
// A non-zero exit yields both the Result and an *ExitError.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Dir != "" {
		logger.Debug("running '%s' in %s", cmd, cmd.Dir)
	} else {
		logger.Debug("running '%s'", cmd)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = &stdoutBuf
	c.Stderr = &stderrBuf

	err := c.Run()
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("'%s' interrupted: %w", cmd, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{
			Command:  cmd,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	result.ExitCode = -1
	return result, &StartError{Command: cmd, Err: err}
}

// Ensure Runner implements Executor interface
var _ Executor = (*Runner)(nil)
