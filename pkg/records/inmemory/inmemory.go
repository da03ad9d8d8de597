// Package inmemory provides an in-memory record store for tests and local
// runs. It enforces the same uniqueness rules as the SQL stores.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
)

// Driver implements records.Store with maps guarded by a mutex.
type Driver struct {
	mu          sync.RWMutex
	collections map[content.Category]map[uuid.UUID]content.Record
}

func NewDriver() *Driver {
	return &Driver{
		collections: make(map[content.Category]map[uuid.UUID]content.Record),
	}
}

// sorted returns a collection's records ordered by name then id, matching
// the SQL stores.
func (d *Driver) sorted(category content.Category, f records.Filter) []content.Record {
	var out []content.Record
	for _, r := range d.collections[category] {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := records.ColumnsOf(out[i]).Name, records.ColumnsOf(out[j]).Name
		if ni != nj {
			return ni < nj
		}
		return out[i].RecordID().String() < out[j].RecordID().String()
	})
	return out
}

func (d *Driver) Find(_ context.Context, category content.Category, f records.Filter) (content.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rs := d.sorted(category, f)
	if len(rs) == 0 {
		return nil, records.ErrNotFound
	}
	return rs[0], nil
}

func (d *Driver) BulkFind(_ context.Context, category content.Category, f records.Filter) ([]content.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rs := d.sorted(category, f)
	if rs == nil {
		rs = []content.Record{}
	}
	return rs, nil
}

func (d *Driver) conflict(r content.Record) error {
	category := r.Category()
	existing := d.collections[category]
	if _, ok := existing[r.RecordID()]; ok {
		return fmt.Errorf("%w: %s %s", records.ErrConflict, category, r.RecordID())
	}

	cols := records.ColumnsOf(r)
	var key records.Filter
	switch category {
	case content.CategoryGallery:
		key = records.Filter{Name: cols.Name}
	case content.CategoryExhibition:
		key = records.Filter{Name: cols.Name, GalleryID: cols.GalleryID}
	default:
		return nil
	}

	for _, other := range existing {
		o := records.ColumnsOf(other)
		if o.Name == key.Name && o.GalleryID == key.GalleryID {
			return fmt.Errorf("%w: %s %q", records.ErrConflict, category, cols.Name)
		}
	}
	return nil
}

func (d *Driver) put(r content.Record) {
	category := r.Category()
	if d.collections[category] == nil {
		d.collections[category] = make(map[uuid.UUID]content.Record)
	}
	d.collections[category][r.RecordID()] = r
}

func (d *Driver) Insert(_ context.Context, r content.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.conflict(r); err != nil {
		return err
	}
	d.put(r)
	return nil
}

// BulkInsert inserts all records or none.
func (d *Driver) BulkInsert(_ context.Context, rs []content.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	inserted := make([]content.Record, 0, len(rs))
	for _, r := range rs {
		if err := d.conflict(r); err != nil {
			for _, done := range inserted {
				delete(d.collections[done.Category()], done.RecordID())
			}
			return err
		}
		d.put(r)
		inserted = append(inserted, r)
	}
	return nil
}

func (d *Driver) DeleteMany(_ context.Context, category content.Category, f records.Filter) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var n int64
	for id, r := range d.collections[category] {
		if f.Matches(r) {
			delete(d.collections[category], id)
			n++
		}
	}
	return n, nil
}

func (d *Driver) DeleteOne(_ context.Context, category content.Category, f records.Filter) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rs := d.sorted(category, f)
	if len(rs) == 0 {
		return records.ErrNotFound
	}
	delete(d.collections[category], rs[0].RecordID())
	return nil
}

func (d *Driver) Close() error {
	return nil
}

var _ records.Store = (*Driver)(nil)
