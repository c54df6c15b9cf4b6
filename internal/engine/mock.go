package engine

import (
	"context"
	"sync"
)

// MockResponse is a canned reply for the Mock engine.
type MockResponse struct {
	Text string
	Err  error
}

// Mock is a deterministic Engine for tests. It returns canned responses in
// FIFO order and records every question it was asked.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse

	SolveCalls   []string
	ExtractCalls int
}

func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

func (m *Mock) Name() string     { return "mock" }
func (m *Mock) GetModel() string { return "mock" }

func (m *Mock) Solve(_ context.Context, question string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SolveCalls = append(m.SolveCalls, question)
	return m.next()
}

func (m *Mock) ExtractQuestion(_ context.Context, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractCalls++
	return m.next()
}

func (m *Mock) next() (string, error) {
	if len(m.responses) == 0 {
		return "", context.DeadlineExceeded
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r.Text, r.Err
}

// CallCount returns the number of Solve calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SolveCalls)
}
