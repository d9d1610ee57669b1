package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// MockQuestionExtractor is a test double for ai.QuestionExtractor.
type MockQuestionExtractor struct {
	// ExtractQuestionsFunc is called by ExtractQuestions if set.
	// If nil, generates count questions from the first words of the text.
	ExtractQuestionsFunc func(ctx context.Context, text string, count int) ([]string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockQuestionExtractor creates a mock question extractor with default behavior.
func NewMockQuestionExtractor() *MockQuestionExtractor {
	return &MockQuestionExtractor{}
}

// ExtractQuestions returns questions for text.
// Like the real extractor, texts under 50 characters yield none.
func (m *MockQuestionExtractor) ExtractQuestions(ctx context.Context, text string, count int) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ExtractQuestionsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, count)
	}

	if utf8.RuneCountInString(text) < 50 {
		return []string{}, nil
	}

	words := strings.Fields(text)
	if len(words) > 6 {
		words = words[:6]
	}
	subject := strings.Join(words, " ")

	questions := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, fmt.Sprintf("Question %d about %s?", i, subject))
	}
	return questions, nil
}

// CallCount returns the number of times ExtractQuestions was called.
func (m *MockQuestionExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockQuestionExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractQuestionsFunc = nil
}
