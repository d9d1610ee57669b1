package mock

import (
	"context"
	"fmt"
	"sync"
)

// MockAnswerer is a test double for ai.Answerer.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	AnswerFunc func(ctx context.Context, question string, chunks []string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockAnswerer creates a mock answerer with default behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer echoes the question and the number of chunks.
func (m *MockAnswerer) Answer(ctx context.Context, question string, chunks []string) (string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.AnswerFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question, chunks)
	}
	return fmt.Sprintf("answer to %q from %d chunks", question, len(chunks)), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
