// Package testutils holds hand-written fakes shared by package tests.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/artomo/pkg/embeddings"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// Short drops the last vector of every batch.
	Short bool

	mu      sync.Mutex
	batches [][]string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, embeddings.ErrEmbeddingCount
	}
	return vecs[0], nil
}

func (m *MockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if m.FailOn != "" && text == m.FailOn {
			return nil, fmt.Errorf("%w: mock embedding failure for: %s", embeddings.ErrEmbedding, text)
		}

		if emb, ok := m.Embeddings[text]; ok {
			out = append(out, emb)
			continue
		}

		// Return a default embedding for any text
		out = append(out, []float32{0.1, 0.2, 0.3})
	}

	if m.Short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Batches returns the inputs of every EmbedBatch call so far.
func (m *MockEmbedder) Batches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.batches...)
}

func (m *MockEmbedder) Info() embeddings.ModelInfo {
	return embeddings.ModelInfo{ModelID: "mock-embedder", Dimensions: 3, MaxInputLength: 128}
}

func (m *MockEmbedder) Close() error {
	return nil
}
