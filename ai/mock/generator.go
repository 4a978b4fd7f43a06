package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/docfind/ai"
)

// MockGenerator is a test double for ai.AnswerGenerator.
type MockGenerator struct {
	// GenerateFunc is called by GenerateAnswer if set.
	// If nil, a canned answer echoing the question is returned.
	GenerateFunc func(ctx context.Context, req ai.AnswerRequest) (string, error)

	callCount int
}

// NewMockGenerator creates a mock answer generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer returns a deterministic canned answer unless custom
// behavior is injected.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, req ai.AnswerRequest) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	return fmt.Sprintf("answer to %q from pages %v", req.Question, req.Pages), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
