package git

import "context"

// MockGitRunner implements GitExecutor for testing.
// Each method can be configured with a custom function to control behavior.
type MockGitRunner struct {
	IsRepositoryFunc   func() (bool, error)
	RemoteBranchesFunc func() ([]string, error)
	RemoteURLFunc      func(remote string) (string, error)
	workDir            string
}

// NewMockGitRunner creates a new MockGitRunner with the specified working directory
func NewMockGitRunner(workDir string) *MockGitRunner {
	return &MockGitRunner{
		workDir: workDir,
	}
}

// IsRepository reports true unless IsRepositoryFunc says otherwise
func (m *MockGitRunner) IsRepository(ctx context.Context) (bool, error) {
	if m.IsRepositoryFunc != nil {
		return m.IsRepositoryFunc()
	}
	return true, nil
}

// RemoteBranches returns the configured branches, or none
func (m *MockGitRunner) RemoteBranches(ctx context.Context) ([]string, error) {
	if m.RemoteBranchesFunc != nil {
		return m.RemoteBranchesFunc()
	}
	return nil, nil
}

// RemoteURL returns the configured URL, or an empty string
func (m *MockGitRunner) RemoteURL(ctx context.Context, remote string) (string, error) {
	if m.RemoteURLFunc != nil {
		return m.RemoteURLFunc(remote)
	}
	return "", nil
}

// WorkDir returns the working directory of the git repository
func (m *MockGitRunner) WorkDir() string {
	return m.workDir
}

// Ensure MockGitRunner implements GitExecutor interface
var _ GitExecutor = (*MockGitRunner)(nil)
