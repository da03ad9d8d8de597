package embeddings

import "errors"

var (
	// ErrEmbedding is returned when the embedding model call fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmbeddingCount is returned when a model answers with a different
	// number of vectors than inputs.
	ErrEmbeddingCount = errors.New("embedding count does not match input count")
)
