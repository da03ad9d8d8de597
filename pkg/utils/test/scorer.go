package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/artomo/pkg/rerank"
)

// MockScorer returns scripted scores and records the pairs it was given.
type MockScorer struct {
	Scores []float32
	Err    error

	mu    sync.Mutex
	pairs [][]rerank.Pair
}

func (m *MockScorer) Score(_ context.Context, pairs []rerank.Pair) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pairs = append(m.pairs, pairs)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Scores, nil
}

// Calls returns the pairs passed to each Score call.
func (m *MockScorer) Calls() [][]rerank.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairs
}

var _ rerank.Scorer = (*MockScorer)(nil)
