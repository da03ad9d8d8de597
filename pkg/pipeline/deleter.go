package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/vector"
)

// Deleter drops named collections from whichever store holds them.
type Deleter struct {
	records records.Store
	vectors vector.Driver
	logger  *slog.Logger
}

func NewDeleter(store records.Store, vectors vector.Driver, logger *slog.Logger) *Deleter {
	return &Deleter{records: store, vectors: vectors, logger: logger}
}

// Delete removes each named collection. Names containing "cleaned" or
// "embedded" are vector store collections; category names are record
// store collections. Anything else is logged and counted as a failure.
func (d *Deleter) Delete(ctx context.Context, names []string) (deleted, failed int) {
	for _, name := range names {
		if err := d.deleteOne(ctx, name); err != nil {
			d.logger.Error("deleting collection", "collection", name, "error", err)
			failed++
			continue
		}
		deleted++
	}
	return deleted, failed
}

func (d *Deleter) deleteOne(ctx context.Context, name string) error {
	if IsVectorCollection(name) {
		if err := d.vectors.DeleteCollection(ctx, name); err != nil {
			return err
		}
		d.logger.Info("vector collection deleted", "collection", name)
		return nil
	}

	category, err := content.ParseCategory(name)
	if err != nil {
		return err
	}
	n, err := d.records.DeleteMany(ctx, category, records.Filter{})
	if err != nil {
		return err
	}
	d.logger.Info("record collection deleted", "collection", name, "records", n)
	return nil
}

// IsVectorCollection reports whether name belongs to the vector store.
func IsVectorCollection(name string) bool {
	return strings.Contains(name, "cleaned") || strings.Contains(name, "embedded")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
