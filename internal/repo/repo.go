// Package repo opens a local Git repository's remote in the browser.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jeroen-meijer/suitcase/internal/common/browser"
	"github.com/jeroen-meijer/suitcase/internal/common/git"
	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/remote"
)

// DefaultRemote is the remote opened when none is given
const DefaultRemote = "origin"

var (
	ErrPathNotFound     = errors.New("path does not exist or is not an accessible directory")
	ErrNotGitRepository = errors.New("not a Git repository")
	ErrNoRemotes        = errors.New("no remotes configured")
)

// PathError reports which path a repository check failed for
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Err, ErrPathNotFound):
		return fmt.Sprintf("path '%s' does not exist or is not an accessible directory", e.Path)
	case errors.Is(e.Err, ErrNotGitRepository):
		return fmt.Sprintf("path '%s' is not a Git repository", e.Path)
	case errors.Is(e.Err, ErrNoRemotes):
		return fmt.Sprintf("project at path '%s' has no remotes configured", e.Path)
	default:
		return fmt.Sprintf("path '%s': %v", e.Path, e.Err)
	}
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Options for Open
type Options struct {
	Path      string // Directory inside the repository; defaults to "."
	Remote    string // Remote name; defaults to DefaultRemote
	PrintOnly bool   // Print the URL instead of opening it
}

// GitFactory creates the git client for a directory
type GitFactory func(dir string) git.GitExecutor

// Opener resolves and opens repository URLs
type Opener struct {
	newGit   GitFactory
	browser  browser.Opener
	reporter progress.Reporter
	out      io.Writer
}

// NewOpener creates an Opener. out receives the URL in PrintOnly mode.
func NewOpener(newGit GitFactory, b browser.Opener, reporter progress.Reporter, out io.Writer) *Opener {
	if newGit == nil {
		newGit = func(dir string) git.GitExecutor { return git.NewGitRunner(dir, nil) }
	}
	if reporter == nil {
		reporter = progress.Discard
	}
	if out == nil {
		out = os.Stdout
	}
	return &Opener{newGit: newGit, browser: b, reporter: reporter, out: out}
}

// Open checks that opts.Path is inside a Git repository with remotes and
// opens the browser URL of the chosen remote. It returns the URL.
func (o *Opener) Open(ctx context.Context, opts Options) (string, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}
	name := opts.Remote
	if name == "" {
		name = DefaultRemote
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return "", &PathError{Path: path, Err: ErrPathNotFound}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", &PathError{Path: path, Err: ErrPathNotFound}
	}

	client := o.newGit(dir)

	isRepo, err := progress.Track(o.reporter, "Checking git folder", func() (bool, error) {
		return client.IsRepository(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("trying to check git folder: %w", err)
	}
	if !isRepo {
		return "", &PathError{Path: path, Err: ErrNotGitRepository}
	}

	branches, err := progress.Track(o.reporter, "Getting remote branches", func() ([]string, error) {
		return client.RemoteBranches(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("trying to get remote branches: %w", err)
	}
	if len(branches) == 0 {
		return "", &PathError{Path: path, Err: ErrNoRemotes}
	}

	rawURL, err := progress.Track(o.reporter, "Getting remote url", func() (string, error) {
		return client.RemoteURL(ctx, name)
	})
	if err != nil {
		return "", fmt.Errorf("trying to fetch the remote url: %w", err)
	}

	url, err := remote.BrowserURL(rawURL)
	if err != nil {
		logger.Debug("opening remote url unchanged: %v", err)
		url = rawURL
	}

	if opts.PrintOnly {
		fmt.Fprintln(o.out, url)
		return url, nil
	}

	logger.Debug("opening %s", url)
	err = progress.Do(o.reporter, "Opening repository", func() error {
		return o.browser.Open(ctx, url)
	})
	if err != nil {
		return url, fmt.Errorf("trying to open '%s': %w", url, err)
	}
	return url, nil
}
