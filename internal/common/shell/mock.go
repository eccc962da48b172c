package shell

import (
	"context"
	"sync"
)

// MockExecutor implements Executor for testing.
// RunFunc controls the outcome; every received command is recorded.
type MockExecutor struct {
	RunFunc func(ctx context.Context, cmd Command) (*Result, error)

	mu    sync.Mutex
	calls []Command
}

// NewMockExecutor creates a MockExecutor that succeeds with empty output
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Run records cmd and delegates to RunFunc
func (m *MockExecutor) Run(ctx context.Context, cmd Command) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, cmd)
	}
	return &Result{}, nil
}

// Calls returns a copy of the commands received so far
func (m *MockExecutor) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Command, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Ensure MockExecutor implements Executor interface
var _ Executor = (*MockExecutor)(nil)
