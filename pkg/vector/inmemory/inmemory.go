// Package inmemory provides an in-memory vector driver for tests and
// single-process runs.
package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/papercomputeco/artomo/pkg/vector"
)

type collection struct {
	docs    map[string]vector.Document
	indexes map[string]vector.FieldType
}

// Driver implements vector.Driver with brute-force cosine search.
type Driver struct {
	mu          sync.RWMutex
	collections map[string]*collection
	logger      *slog.Logger
}

func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{
		collections: make(map[string]*collection),
		logger:      logger,
	}
}

func (d *Driver) ensure(name string) *collection {
	c, ok := d.collections[name]
	if !ok {
		c = &collection{
			docs:    make(map[string]vector.Document),
			indexes: make(map[string]vector.FieldType),
		}
		d.collections[name] = c
	}
	return c
}

func (d *Driver) Upsert(_ context.Context, name string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.ensure(name)
	for _, doc := range docs {
		stored := vector.Document{
			ID:        doc.ID,
			Embedding: slices.Clone(doc.Embedding),
			Payload:   maps.Clone(doc.Payload),
		}
		c.docs[doc.ID] = stored
	}

	d.logger.Debug("upserted documents", "collection", name, "count", len(docs))
	return nil
}

func (d *Driver) Search(_ context.Context, name string, embedding []float32, limit int, filter vector.Filter) ([]vector.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vector.ErrNotFound, name)
	}
	if err := filter.Validate(c.indexes); err != nil {
		return nil, err
	}

	results := make([]vector.QueryResult, 0, len(c.docs))
	for _, doc := range c.docs {
		if !filter.Matches(doc.Payload) {
			continue
		}
		results = append(results, vector.QueryResult{
			Document: vector.Document{
				ID:        doc.ID,
				Embedding: slices.Clone(doc.Embedding),
				Payload:   maps.Clone(doc.Payload),
			},
			Score: vector.CosineSimilarity(embedding, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (d *Driver) CreateFieldIndex(_ context.Context, name, field string, fieldType vector.FieldType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ensure(name).indexes[field] = fieldType
	return nil
}

func (d *Driver) DeleteCollection(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.collections[name]; !ok {
		return fmt.Errorf("%w: %s", vector.ErrNotFound, name)
	}
	delete(d.collections, name)
	return nil
}

// Count returns the number of documents in a collection.
func (d *Driver) Count(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if c, ok := d.collections[name]; ok {
		return len(c.docs)
	}
	return 0
}

func (d *Driver) Close() error {
	return nil
}

var _ vector.Driver = (*Driver)(nil)
