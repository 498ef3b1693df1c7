package fetcher

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MockExecutor records commands and simulates git. A clone invokes OnClone
// with the destination directory, which lets tests populate a fake checkout.
// It is exported for use by other packages' tests.
type MockExecutor struct {
	OnClone func(ctx context.Context, dest string) error

	mu    sync.Mutex
	calls []ExecutorCall
}

// ExecutorCall records a command invocation.
type ExecutorCall struct {
	Dir  string
	Name string
	Args []string
}

// Run records the call and dispatches git clone to OnClone.
func (m *MockExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ExecutorCall{Dir: dir, Name: name, Args: args})
	m.mu.Unlock()

	if name == "git" && len(args) > 0 && args[0] == "clone" {
		if m.OnClone == nil {
			return nil, nil
		}
		return nil, m.OnClone(ctx, args[len(args)-1])
	}
	return nil, errors.New("no mock response configured for: " + name + " " + strings.Join(args, " "))
}

// Calls returns all recorded command calls.
func (m *MockExecutor) Calls() []ExecutorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutorCall(nil), m.calls...)
}
