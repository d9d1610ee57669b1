package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/faqtory/core"
)

// MockTopicClassifier is a test double for ai.TopicClassifier.
type MockTopicClassifier struct {
	// ClassifyTopicFunc is called by ClassifyTopic if set.
	// If nil, picks the first topic whose name appears in the text.
	ClassifyTopicFunc func(ctx context.Context, text string, names, ids []string) (string, error)

	mu        sync.Mutex
	callCount int
	texts     []string
}

// NewMockTopicClassifier creates a mock classifier with default behavior.
func NewMockTopicClassifier() *MockTopicClassifier {
	return &MockTopicClassifier{}
}

// ClassifyTopic returns a topic id, or "other" when no name matches.
func (m *MockTopicClassifier) ClassifyTopic(ctx context.Context, text string, names, ids []string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.texts = append(m.texts, text)
	fn := m.ClassifyTopicFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, names, ids)
	}

	lower := strings.ToLower(text)
	for i, name := range names {
		if i < len(ids) && name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return ids[i], nil
		}
	}
	return core.OtherTopicID, nil
}

// CallCount returns the number of times ClassifyTopic was called.
func (m *MockTopicClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Texts returns every text classified so far.
func (m *MockTopicClassifier) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Reset clears recorded calls and injected behavior.
func (m *MockTopicClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.texts = nil
	m.ClassifyTopicFunc = nil
}
