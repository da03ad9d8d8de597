// Package rerank defines the cross-encoder scoring interface used to
// reorder vector search candidates.
package rerank

import (
	"context"
	"errors"
)

// ErrScoreCount is returned when a scorer returns a different number of
// scores than pairs it was given.
var ErrScoreCount = errors.New("reranker returned wrong number of scores")

// Pair is one (query, passage) input to a cross-encoder.
type Pair struct {
	Query string
	Text  string
}

// Scorer assigns a relevance score to each pair. Scores are returned in
// input order; higher is more relevant.
type Scorer interface {
	Score(ctx context.Context, pairs []Pair) ([]float32, error)
}
