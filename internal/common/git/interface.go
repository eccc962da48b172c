package git

import "context"

// GitExecutor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type GitExecutor interface {
	// IsRepository reports whether the working directory is inside a git work tree
	IsRepository(ctx context.Context) (bool, error)

	// RemoteBranches returns the remote-tracking branches (git branch -r)
	RemoteBranches(ctx context.Context) ([]string, error)

	// RemoteURL returns the configured URL of the named remote
	RemoteURL(ctx context.Context, remote string) (string, error)

	// WorkDir returns the working directory of the git repository
	WorkDir() string
}
