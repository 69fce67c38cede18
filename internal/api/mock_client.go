package api

import (
	"context"
	"sync"

	"github.com/diogo/wedeliver/internal/models"
)

// MockClient is a canned completer for tests of packages built on the client
type MockClient struct {
	mu sync.Mutex

	// Result is returned by Complete unless CompleteFunc is set
	Result       models.CompletionResult
	CompleteFunc func(ctx context.Context, history []models.Message, userText string) models.CompletionResult

	// Call recorders
	Calls        int
	LastHistory  []models.Message
	LastUserText string
}

// Complete records the call and returns the configured result
func (m *MockClient) Complete(ctx context.Context, history []models.Message, userText string) models.CompletionResult {
	m.mu.Lock()
	m.Calls++
	m.LastHistory = append([]models.Message(nil), history...)
	m.LastUserText = userText
	fn := m.CompleteFunc
	result := m.Result
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, history, userText)
	}
	return result
}

// CallCount returns how many completions were requested
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
