// Package pipeline runs the feature pipeline: it reads raw records from the
// record store, cleans and embeds them, and loads the embedded documents
// into the vector store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/preprocess"
	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/vector"
)

const (
	// DefaultLoadBatchSize is the number of documents per vector upsert.
	DefaultLoadBatchSize = 4

	// DefaultEmbedBatchSize is the number of documents per embedder call.
	DefaultEmbedBatchSize = 32
)

// ErrLoad is returned when a vector store batch fails. Earlier batches
// stay written.
var ErrLoad = errors.New("loading vector batch")

// DefaultSources are the categories the pipeline embeds.
var DefaultSources = []content.Category{content.CategoryExhibition, content.CategoryReflection}

// Pipeline moves records from the record store to the vector store.
type Pipeline struct {
	records  records.Store
	vectors  vector.Driver
	cleaner  *preprocess.CleaningDispatcher
	embedder *preprocess.EmbeddingDispatcher
	logger   *slog.Logger

	sources        []content.Category
	loadBatchSize  int
	embedBatchSize int
	fetchWorkers   int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSources overrides the categories fetched from the record store.
func WithSources(categories ...content.Category) Option {
	return func(p *Pipeline) {
		p.sources = categories
	}
}

// WithLoadBatchSize sets the number of documents per upsert.
func WithLoadBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.loadBatchSize = n
		}
	}
}

// WithEmbedBatchSize sets the number of documents per embedder call.
func WithEmbedBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.embedBatchSize = n
		}
	}
}

// WithFetchWorkers bounds the concurrent record store reads.
func WithFetchWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fetchWorkers = n
		}
	}
}

func New(
	store records.Store,
	vectors vector.Driver,
	cleaner *preprocess.CleaningDispatcher,
	embedder *preprocess.EmbeddingDispatcher,
	logger *slog.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		records:        store,
		vectors:        vectors,
		cleaner:        cleaner,
		embedder:       embedder,
		logger:         logger,
		sources:        DefaultSources,
		loadBatchSize:  DefaultLoadBatchSize,
		embedBatchSize: DefaultEmbedBatchSize,
		fetchWorkers:   len(DefaultSources),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches, cleans, embeds and loads every source category.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := newResult()

	fetched := p.Fetch(ctx)

	var docs []content.Embedded
	for _, category := range p.sources {
		raw := fetched[category]
		result.Fetched[category] = len(raw)
		if len(raw) == 0 {
			continue
		}

		cleaned, err := p.cleaner.CleanAll(raw)
		if err != nil {
			return result, fmt.Errorf("cleaning %s: %w", category, err)
		}

		embedded, err := p.Embed(ctx, cleaned)
		if err != nil {
			return result, fmt.Errorf("embedding %s: %w", category, err)
		}
		result.Embedded[category] = len(embedded)
		if len(embedded) > 0 {
			result.Provenance[category] = embedded[0].Provenance()
		}
		docs = append(docs, embedded...)
	}

	loaded, batches, err := p.Load(ctx, docs)
	result.Loaded = loaded
	result.Batches = batches
	if err != nil {
		return result, err
	}

	p.logger.Info("pipeline complete", "loaded", loaded, "batches", batches)
	return result, nil
}

// Fetch reads every source category concurrently. A failed read is logged
// and yields no records for that category.
func (p *Pipeline) Fetch(ctx context.Context) map[content.Category][]content.Record {
	var (
		mu  sync.Mutex
		out = make(map[content.Category][]content.Record, len(p.sources))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fetchWorkers)
	for _, category := range p.sources {
		g.Go(func() error {
			rs, err := p.records.BulkFind(gctx, category, records.Filter{})
			if err != nil {
				p.logger.Error("fetching records", "category", category, "error", err)
				rs = nil
			}
			p.logger.Debug("records fetched", "category", category, "count", len(rs))

			mu.Lock()
			out[category] = rs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Embed embeds same-category cleaned records in embedder-sized batches,
// preserving order.
func (p *Pipeline) Embed(ctx context.Context, docs []content.Cleaned) ([]content.Embedded, error) {
	out := make([]content.Embedded, 0, len(docs))
	for start := 0; start < len(docs); start += p.embedBatchSize {
		end := min(start+p.embedBatchSize, len(docs))
		batch, err := p.embedder.EmbedBatch(ctx, docs[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Load upserts docs in fixed-size batches, in order. The first failing
// batch stops the load; loaded counts the documents written before it.
func (p *Pipeline) Load(ctx context.Context, docs []content.Embedded) (loaded, batches int, err error) {
	for start := 0; start < len(docs); start += p.loadBatchSize {
		end := min(start+p.loadBatchSize, len(docs))

		byCollection, order, err := toDocuments(docs[start:end])
		if err != nil {
			return loaded, batches, fmt.Errorf("%w %d: %w", ErrLoad, batches+1, err)
		}
		for _, collection := range order {
			if err := p.vectors.Upsert(ctx, collection, byCollection[collection]); err != nil {
				p.logger.Error("vector batch failed", "batch", batches+1, "collection", collection, "error", err)
				return loaded, batches, fmt.Errorf("%w %d: %w", ErrLoad, batches+1, err)
			}
			loaded += len(byCollection[collection])
		}
		batches++
		p.logger.Debug("vector batch loaded", "batch", batches, "size", end-start)
	}
	return loaded, batches, nil
}

// toDocuments groups a batch by target collection, keeping first-seen
// collection order.
func toDocuments(docs []content.Embedded) (map[string][]vector.Document, []string, error) {
	byCollection := make(map[string][]vector.Document)
	var order []string

	for _, doc := range docs {
		if doc.Vector() == nil {
			return nil, nil, fmt.Errorf("document %s has no embedding", doc.RecordID())
		}
		collection := doc.Collection()
		if collection == "" {
			return nil, nil, fmt.Errorf("%s documents are not stored", doc.Category())
		}
		payload, err := content.Payload(doc)
		if err != nil {
			return nil, nil, err
		}

		if _, ok := byCollection[collection]; !ok {
			order = append(order, collection)
		}
		byCollection[collection] = append(byCollection[collection], vector.Document{
			ID:        doc.RecordID().String(),
			Embedding: doc.Vector(),
			Payload:   payload,
		})
	}
	return byCollection, order, nil
}
