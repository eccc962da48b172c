package git

import (
	"context"
	"errors"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/common/shell"
)

var (
	ErrRemoteNotFound = errors.New("remote is not configured")
	ErrGitCommand     = errors.New("git command failed")
)

// GitRunner executes git commands against a specific working directory
type GitRunner struct {
	workDir string
	exec    shell.Executor
}

// NewGitRunner creates a new GitRunner for the specified working directory
func NewGitRunner(workDir string, exec shell.Executor) *GitRunner {
	if exec == nil {
		exec = shell.NewRunner()
	}
	return &GitRunner{
		workDir: workDir,
		exec:    exec,
	}
}

// WorkDir returns the working directory of the GitRunner
func (g *GitRunner) WorkDir() string {
	return g.workDir
}

// runCommand executes "git -C <workDir> args..." and returns stdout
func (g *GitRunner) runCommand(ctx context.Context, args ...string) (string, error) {
	cmd := shell.Command{
		Name: "git",
		Args: append([]string{"-C", g.workDir}, args...),
	}

	result, err := g.exec.Run(ctx, cmd)
	if err != nil {
		return "", errors.Join(ErrGitCommand, err)
	}
	return result.Stdout, nil
}

// IsRepository reports whether workDir is inside a git work tree.
// git exiting non-zero means "not a repository", not a failure.
func (g *GitRunner) IsRepository(ctx context.Context) (bool, error) {
	stdout, err := g.runCommand(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var exitErr *shell.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(stdout) == "true", nil
}

// RemoteBranches returns the remote-tracking branches of the repository
func (g *GitRunner) RemoteBranches(ctx context.Context) ([]string, error) {
	stdout, err := g.runCommand(ctx, "branch", "-r")
	if err != nil {
		return nil, err
	}
	return ParseBranchOutput(stdout), nil
}

// ParseBranchOutput parses "git branch -r" output into branch names.
// Symbolic refs such as "origin/HEAD -> origin/main" are skipped.
func ParseBranchOutput(output string) []string {
	var branches []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, " -> ") {
			continue
		}
		branches = append(branches, line)
	}

	return branches
}

// RemoteURL returns the URL configured for remote.
// git config exits with status 1 when the key is unset.
func (g *GitRunner) RemoteURL(ctx context.Context, remote string) (string, error) {
	stdout, err := g.runCommand(ctx, "config", "--get", "remote."+remote+".url")
	if err != nil {
		var exitErr *shell.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode == 1 {
			return "", ErrRemoteNotFound
		}
		return "", err
	}

	url := strings.TrimSpace(stdout)
	if url == "" {
		return "", ErrRemoteNotFound
	}
	return url, nil
}

// Ensure GitRunner implements GitExecutor interface
var _ GitExecutor = (*GitRunner)(nil)
