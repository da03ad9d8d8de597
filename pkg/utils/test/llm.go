package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/artomo/pkg/report"
)

// MockLanguageModel answers every prompt with Answer and records prompts.
type MockLanguageModel struct {
	Answer string
	Err    error

	mu      sync.Mutex
	prompts []string
}

func NewMockLanguageModel(answer string) *MockLanguageModel {
	return &MockLanguageModel{Answer: answer}
}

func (m *MockLanguageModel) Complete(_ context.Context, prompt string, _ report.Params) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

// Prompts returns every prompt received so far.
func (m *MockLanguageModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

var _ report.LanguageModel = (*MockLanguageModel)(nil)
