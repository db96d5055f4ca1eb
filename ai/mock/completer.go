package mock

import (
	"context"
	"time"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default echo behavior.
	CompleteFunc func(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error)

	// Responses, when non-empty, are returned in order; once exhausted the
	// last response repeats.
	Responses []string

	callCount int
}

// NewMockCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// NewScriptedCompleter creates a mock completer that replays canned responses.
func NewScriptedCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{Responses: responses}
}

// Complete returns the scripted or injected completion.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	call := m.callCount
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, maxTokens, timeout)
	}
	if len(m.Responses) > 0 {
		if call >= len(m.Responses) {
			call = len(m.Responses) - 1
		}
		return m.Responses[call], nil
	}
	return "completion: " + prompt, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count, scripted responses and injected functions.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.Responses = nil
	m.CompleteFunc = nil
}
