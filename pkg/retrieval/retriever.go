// Package retrieval turns a user query into a ranked, time-budgeted
// shortlist of exhibitions.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/vector"
)

// EndDateField is the payload field holding an exhibition's end as epoch
// seconds. Every search excludes exhibitions that have already closed.
const EndDateField = "exhibition_end_date_ts"

// QueryEmbedder embeds a query through the query embedding handler.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, q *content.Query) (*content.EmbeddedQuery, error)
}

// Retriever searches embedded exhibitions and reranks the candidates.
// It holds no per-request state and is safe for concurrent use.
type Retriever struct {
	embedder QueryEmbedder
	vectors  vector.Driver
	reranker *Reranker
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithClock overrides the clock used for the end-date filter.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		r.now = now
	}
}

// NewRetriever wires a retriever from injected services.
func NewRetriever(embedder QueryEmbedder, vectors vector.Driver, reranker *Reranker, logger *slog.Logger, opts ...Option) *Retriever {
	r := &Retriever{
		embedder: embedder,
		vectors:  vectors,
		reranker: reranker,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filter builds the search filter: the end date must not be in the past
// and every caller field must match its stringified value exactly.
func Filter(now time.Time, filters map[string]any) vector.Filter {
	f := vector.Filter{}.And(vector.AtLeast(EndDateField, float64(now.Unix())))

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f = f.And(vector.MatchKeyword(k, vector.Stringify(filters[k])))
	}
	return f
}

// SearchLimit is the number of candidates fetched for k requested results.
func SearchLimit(k int) int {
	return max(1, k/2)
}

// Search embeds q, runs a filtered vector search for SearchLimit(k)
// candidates and reranks them to the number of exhibitions that fit the
// query's duration.
func (r *Retriever) Search(ctx context.Context, q *content.Query, k int, filters map[string]any) ([]*content.EmbeddedExhibition, error) {
	eq, err := r.embedder.EmbedQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, err)
	}

	results, err := r.vectors.Search(ctx, content.ExhibitionsCollection, eq.Embedding, SearchLimit(k), Filter(r.now(), filters))
	if err != nil {
		if errors.Is(err, vector.ErrUnknownField) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrVectorStore, err)
	}

	candidates := make([]*content.EmbeddedExhibition, 0, len(results))
	for _, res := range results {
		id, err := uuid.Parse(res.ID)
		if err != nil {
			r.logger.Warn("skipping document with invalid id", "id", res.ID, "error", err)
			continue
		}
		doc, err := content.ExhibitionFromPayload(id, res.Payload, res.Embedding)
		if err != nil {
			r.logger.Warn("skipping undecodable document", "id", res.ID, "error", err)
			continue
		}
		candidates = append(candidates, doc)
	}

	r.logger.Info("retrieved candidates", "count", len(candidates), "limit", SearchLimit(k))
	if len(candidates) == 0 {
		return []*content.EmbeddedExhibition{}, nil
	}

	duration, _ := q.Duration()
	keep, err := KeepTopKFromDuration(duration)
	if err != nil {
		return nil, err
	}

	ranked, err := r.reranker.Rerank(ctx, q, candidates, keep)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRerank, err)
	}

	r.logger.Info("reranked candidates", "kept", len(ranked), "budget", keep)
	return ranked, nil
}
