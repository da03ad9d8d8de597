package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/rerank"
)

// Reranker reorders candidates by cross-encoder relevance to the query.
type Reranker struct {
	scorer rerank.Scorer
	mock   bool
}

// NewReranker creates a reranker that scores with scorer.
func NewReranker(scorer rerank.Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// NewMockReranker creates a reranker that returns candidates unchanged.
func NewMockReranker() *Reranker {
	return &Reranker{mock: true}
}

// Mock reports whether the reranker passes candidates through.
func (r *Reranker) Mock() bool {
	return r.mock
}

// Rerank scores each (query, description) pair, stable-sorts by descending
// score and keeps the first keepTopK. In mock mode the candidates are
// returned as given, without truncation.
func (r *Reranker) Rerank(ctx context.Context, q *content.Query, candidates []*content.EmbeddedExhibition, keepTopK int) ([]*content.EmbeddedExhibition, error) {
	if r.mock || len(candidates) == 0 {
		return candidates, nil
	}

	pairs := make([]rerank.Pair, len(candidates))
	for i, c := range candidates {
		pairs[i] = rerank.Pair{Query: q.Content, Text: c.Description}
	}

	scores, err := r.scorer.Score(ctx, pairs)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("%w: expected %d, got %d", rerank.ErrScoreCount, len(candidates), len(scores))
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if keepTopK < len(order) {
		order = order[:max(keepTopK, 0)]
	}

	out := make([]*content.EmbeddedExhibition, len(order))
	for i, idx := range order {
		out[i] = candidates[idx]
	}
	return out, nil
}
