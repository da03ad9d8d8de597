// Package records defines the record store: CRUD over category-named
// collections of raw records keyed by their identifier.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
)

// Filter selects records within one category. Zero-valued fields match
// anything.
type Filter struct {
	ID        uuid.UUID
	Name      string
	GalleryID uuid.UUID

	// ActiveAt keeps exhibitions whose end date is at or after the instant.
	ActiveAt *time.Time
}

// Store persists raw records. Galleries are unique by name and exhibitions
// by (name, gallery_id); inserting a duplicate returns ErrConflict.
type Store interface {
	// Find returns the first record matching filter, or ErrNotFound.
	Find(ctx context.Context, category content.Category, filter Filter) (content.Record, error)

	// BulkFind returns every record matching filter.
	BulkFind(ctx context.Context, category content.Category, filter Filter) ([]content.Record, error)

	// Insert stores one record in its category's collection.
	Insert(ctx context.Context, record content.Record) error

	// BulkInsert stores records atomically where the backend allows it.
	BulkInsert(ctx context.Context, records []content.Record) error

	// DeleteMany removes every record matching filter and returns the count.
	DeleteMany(ctx context.Context, category content.Category, filter Filter) (int64, error)

	// DeleteOne removes the first record matching filter, or returns
	// ErrNotFound.
	DeleteOne(ctx context.Context, category content.Category, filter Filter) error

	// Close releases the store's resources.
	Close() error
}

// Columns are the indexed attributes extracted from a record.
type Columns struct {
	Name      string
	GalleryID uuid.UUID
	EndTS     *int64
}

// ColumnsOf extracts the indexed attributes of a record.
func ColumnsOf(r content.Record) Columns {
	switch v := r.(type) {
	case *content.Gallery:
		return Columns{Name: v.Name}
	case *content.Exhibition:
		c := Columns{Name: v.Name, GalleryID: v.GalleryID}
		if !v.EndDate.IsZero() {
			ts := v.EndDate.Unix()
			c.EndTS = &ts
		}
		return c
	case *content.User:
		return Columns{Name: v.Name}
	case *content.Prompt:
		return Columns{Name: v.Name}
	case *content.Reflection:
		return Columns{Name: v.Name}
	default:
		return Columns{}
	}
}

// Matches evaluates filter against a record in memory.
func (f Filter) Matches(r content.Record) bool {
	cols := ColumnsOf(r)
	if f.ID != uuid.Nil && r.RecordID() != f.ID {
		return false
	}
	if f.Name != "" && cols.Name != f.Name {
		return false
	}
	if f.GalleryID != uuid.Nil && cols.GalleryID != f.GalleryID {
		return false
	}
	if f.ActiveAt != nil && (cols.EndTS == nil || *cols.EndTS < f.ActiveAt.Unix()) {
		return false
	}
	return true
}

// Decode unmarshals a stored payload into the record type of category.
func Decode(category content.Category, data []byte) (content.Record, error) {
	var r content.Record
	switch category {
	case content.CategoryGallery:
		r = &content.Gallery{}
	case content.CategoryExhibition:
		r = &content.Exhibition{}
	case content.CategoryUser:
		r = &content.User{}
	case content.CategoryPrompt:
		r = &content.Prompt{}
	case content.CategoryQuery:
		r = &content.Query{}
	case content.CategoryReflection:
		r = &content.Reflection{}
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}

	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", category, err)
	}
	return r, nil
}

// FindGallery returns the gallery with the given name.
func FindGallery(ctx context.Context, s Store, name string) (*content.Gallery, error) {
	r, err := s.Find(ctx, content.CategoryGallery, Filter{Name: name})
	if err != nil {
		return nil, err
	}
	return r.(*content.Gallery), nil
}

// GalleryByID returns the gallery with the given identifier.
func GalleryByID(ctx context.Context, s Store, id uuid.UUID) (*content.Gallery, error) {
	r, err := s.Find(ctx, content.CategoryGallery, Filter{ID: id})
	if err != nil {
		return nil, err
	}
	return r.(*content.Gallery), nil
}

// FindExhibition returns the exhibition named name at galleryID.
func FindExhibition(ctx context.Context, s Store, name string, galleryID uuid.UUID) (*content.Exhibition, error) {
	r, err := s.Find(ctx, content.CategoryExhibition, Filter{Name: name, GalleryID: galleryID})
	if err != nil {
		return nil, err
	}
	return r.(*content.Exhibition), nil
}

// ExhibitionByID returns the exhibition with the given identifier.
func ExhibitionByID(ctx context.Context, s Store, id uuid.UUID) (*content.Exhibition, error) {
	r, err := s.Find(ctx, content.CategoryExhibition, Filter{ID: id})
	if err != nil {
		return nil, err
	}
	return r.(*content.Exhibition), nil
}

// BulkFindExhibitions returns the exhibitions matching filter.
func BulkFindExhibitions(ctx context.Context, s Store, filter Filter) ([]*content.Exhibition, error) {
	rs, err := s.BulkFind(ctx, content.CategoryExhibition, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*content.Exhibition, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.(*content.Exhibition))
	}
	return out, nil
}
