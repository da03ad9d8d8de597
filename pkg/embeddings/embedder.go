// Package embeddings defines the text embedding model boundary.
package embeddings

import "context"

// ModelInfo describes the model behind an Embedder. It is stamped onto every
// embedded document as provenance.
type ModelInfo struct {
	ModelID        string
	Dimensions     int
	MaxInputLength int
}

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts in one model call. It returns exactly one
	// vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Info reports the model identity and shape.
	Info() ModelInfo

	// Close releases any resources held by the embedder.
	Close() error
}
