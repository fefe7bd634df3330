package testutil

import (
	"context"
	"sync"

	"nameit/provider"
)

// MockProvider implements provider.Provider for testing
type MockProvider struct {
	// Configurable responses
	SetupFunc      func(ctx context.Context) bool
	ListModelsFunc func(ctx context.Context) []string
	AskFunc        func(ctx context.Context, prompt, question, model string, onResult func(string)) bool

	cfg provider.Config

	mu        sync.Mutex
	setups    int
	questions []AskCall
}

// AskCall records one AskQuestion invocation.
type AskCall struct {
	Prompt   string
	Question string
	Model    string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(cfg provider.Config) *MockProvider {
	mock := &MockProvider{cfg: cfg}
	mock.SetupFunc = mock.defaultSetup
	mock.ListModelsFunc = mock.defaultListModels
	mock.AskFunc = mock.defaultAsk
	return mock
}

func (m *MockProvider) defaultSetup(ctx context.Context) bool {
	return true
}

func (m *MockProvider) defaultListModels(ctx context.Context) []string {
	return []string{"mock-model-1:latest", "mock-model-2:7b"}
}

func (m *MockProvider) defaultAsk(ctx context.Context, prompt, question, model string, onResult func(string)) bool {
	onResult("mockName")
	return true
}

func (m *MockProvider) Setup(ctx context.Context) bool {
	m.mu.Lock()
	m.setups++
	m.mu.Unlock()
	return m.SetupFunc(ctx)
}

func (m *MockProvider) ListAvailableModels(ctx context.Context) []string {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) AskQuestion(ctx context.Context, prompt, question, model string, onResult func(string)) bool {
	m.mu.Lock()
	m.questions = append(m.questions, AskCall{Prompt: prompt, Question: question, Model: model})
	m.mu.Unlock()
	return m.AskFunc(ctx, prompt, question, model, onResult)
}

func (m *MockProvider) Config() provider.Config {
	return m.cfg
}

// SetupCalls returns how many times Setup ran.
func (m *MockProvider) SetupCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setups
}

// Questions returns the recorded AskQuestion calls.
func (m *MockProvider) Questions() []AskCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AskCall, len(m.questions))
	copy(out, m.questions)
	return out
}

// MockRegistry returns a registry whose single entry named name hands out
// providers built by newMock. The last built mock is reported through the
// returned function.
func MockRegistry(name, defaultURL string, newMock func(cfg provider.Config) *MockProvider) (*provider.Registry, func() *MockProvider) {
	var mu sync.Mutex
	var last *MockProvider

	reg := provider.NewRegistry(provider.Entry{
		Name:          name,
		DefaultAPIURL: defaultURL,
		New: func(cfg provider.Config) provider.Provider {
			m := newMock(cfg)
			mu.Lock()
			last = m
			mu.Unlock()
			return m
		},
	})

	return reg, func() *MockProvider {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}
