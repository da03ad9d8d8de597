package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
)

// Result counts the outcome of one ingestion run.
type Result struct {
	AddedGalleries     int `json:"added_galleries"`
	AddedExhibitions   int `json:"added_exhibitions"`
	SkippedExhibitions int `json:"skipped_exhibitions"`
	FailedRows         int `json:"failed_rows"`
}

// Add accumulates another run's counts.
func (r *Result) Add(o Result) {
	r.AddedGalleries += o.AddedGalleries
	r.AddedExhibitions += o.AddedExhibitions
	r.SkippedExhibitions += o.SkippedExhibitions
	r.FailedRows += o.FailedRows
}

type counters struct {
	addedGalleries     atomic.Int64
	addedExhibitions   atomic.Int64
	skippedExhibitions atomic.Int64
	failedRows         atomic.Int64
}

func (c *counters) result() Result {
	return Result{
		AddedGalleries:     int(c.addedGalleries.Load()),
		AddedExhibitions:   int(c.addedExhibitions.Load()),
		SkippedExhibitions: int(c.skippedExhibitions.Load()),
		FailedRows:         int(c.failedRows.Load()),
	}
}

// Ingester merges rows into a record store.
type Ingester struct {
	store    records.Store
	location *time.Location
	workers  int
	logger   *slog.Logger

	locks keyedMutex
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithWorkers processes rows on n goroutines. Rows for the same gallery
// are serialized.
func WithWorkers(n int) Option {
	return func(i *Ingester) {
		i.workers = n
	}
}

// WithLocation sets the timezone sheet dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(i *Ingester) {
		i.location = loc
	}
}

func NewIngester(store records.Store, logger *slog.Logger, opts ...Option) *Ingester {
	i := &Ingester{
		store:    store,
		location: time.UTC,
		workers:  1,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest processes every row independently and returns the counts. A row
// that cannot be parsed or stored is counted as failed.
func (i *Ingester) Ingest(ctx context.Context, rows []Row) Result {
	c := &counters{}

	if i.workers <= 1 {
		for n, row := range rows {
			if ctx.Err() != nil {
				break
			}
			i.ingestRow(ctx, n, row, c)
		}
		return c.result()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for n, row := range rows {
		g.Go(func() error {
			i.ingestRow(gctx, n, row, c)
			return nil
		})
	}
	_ = g.Wait()

	return c.result()
}

// IngestSource reads rows from src and ingests them.
func (i *Ingester) IngestSource(ctx context.Context, src RowSource) (Result, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading rows: %w", err)
	}
	i.logger.Info("read rows", "count", len(rows))
	return i.Ingest(ctx, rows), nil
}

func (i *Ingester) ingestRow(ctx context.Context, n int, row Row, c *counters) {
	logger := i.logger.With("row", n+1)

	gallery, err := row.Gallery()
	if err != nil {
		logger.Warn("skipping malformed row", "error", err)
		c.failedRows.Add(1)
		return
	}
	exhibition, err := row.Exhibition(uuid.Nil, i.location)
	if err != nil {
		logger.Warn("skipping malformed row", "error", err)
		c.failedRows.Add(1)
		return
	}

	unlock := i.locks.lock(gallery.Name)
	defer unlock()

	stored, created, err := i.galleryFor(ctx, gallery, logger)
	if err != nil {
		logger.Error("storing gallery", "gallery", gallery.Name, "error", err)
		c.failedRows.Add(1)
		return
	}
	if created {
		c.addedGalleries.Add(1)
	}
	exhibition.GalleryID = stored.ID

	existing, err := records.FindExhibition(ctx, i.store, exhibition.Name, stored.ID)
	switch {
	case err == nil:
		logger.Debug("exhibition already exists", "exhibition", existing.Name, "id", existing.ID)
		c.skippedExhibitions.Add(1)
		return
	case !errors.Is(err, records.ErrNotFound):
		logger.Warn("exhibition lookup failed, treating as new", "exhibition", exhibition.Name, "error", err)
	}

	err = i.store.Insert(ctx, exhibition)
	switch {
	case err == nil:
		logger.Info("added exhibition", "exhibition", exhibition.Name, "gallery", stored.Name, "id", exhibition.ID)
		c.addedExhibitions.Add(1)
	case errors.Is(err, records.ErrConflict):
		logger.Debug("exhibition already exists", "exhibition", exhibition.Name)
		c.skippedExhibitions.Add(1)
	default:
		logger.Error("storing exhibition", "exhibition", exhibition.Name, "error", err)
		c.failedRows.Add(1)
	}
}

// galleryFor returns the stored gallery with g's name, inserting g when
// none exists. created reports whether g was inserted.
func (i *Ingester) galleryFor(ctx context.Context, g *content.Gallery, logger *slog.Logger) (*content.Gallery, bool, error) {
	existing, err := records.FindGallery(ctx, i.store, g.Name)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, records.ErrNotFound):
		logger.Warn("gallery lookup failed, treating as new", "gallery", g.Name, "error", err)
	}

	err = i.store.Insert(ctx, g)
	switch {
	case err == nil:
		logger.Info("added gallery", "gallery", g.Name, "id", g.ID)
		return g, true, nil
	case errors.Is(err, records.ErrConflict):
		// Another writer created it first.
		existing, err := records.FindGallery(ctx, i.store, g.Name)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		return nil, false, err
	}
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
