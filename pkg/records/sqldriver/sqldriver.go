// Package sqldriver implements records.Store over database/sql, building
// statements with ent's dialect-aware SQL builder. It is embedded by the
// dialect-specific drivers.
package sqldriver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
)

const (
	colID        = "id"
	colName      = "name"
	colGalleryID = "gallery_id"
	colEndTS     = "end_ts"
	colPayload   = "payload"
)

// Driver provides record store operations for any SQL dialect ent supports.
type Driver struct {
	DB      *sql.DB
	Dialect string
	Logger  *slog.Logger

	// IsConflict reports whether err is a uniqueness violation.
	IsConflict func(error) bool
}

// TableName is the table holding a category's records.
func TableName(category content.Category) string {
	return "records_" + string(category)
}

// Migrate creates one table per category and the uniqueness indexes.
func (d *Driver) Migrate(ctx context.Context) error {
	for _, c := range content.Categories() {
		table := TableName(c)
		stmts := []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			gallery_id TEXT NOT NULL DEFAULT '',
			end_ts BIGINT,
			payload TEXT NOT NULL
		)`, table)}

		switch c {
		case content.CategoryGallery:
			stmts = append(stmts, fmt.Sprintf(
				`CREATE UNIQUE INDEX IF NOT EXISTS %s_name_key ON %s (name)`, table, table))
		case content.CategoryExhibition:
			stmts = append(stmts,
				fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_name_gallery_key ON %s (name, gallery_id)`, table, table),
				fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_end_ts_idx ON %s (end_ts)`, table, table),
			)
		}

		for _, stmt := range stmts {
			if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrating %s: %w", table, err)
			}
		}
	}
	return nil
}

func predicate(f records.Filter) *entsql.Predicate {
	var preds []*entsql.Predicate
	if f.ID != uuid.Nil {
		preds = append(preds, entsql.EQ(colID, f.ID.String()))
	}
	if f.Name != "" {
		preds = append(preds, entsql.EQ(colName, f.Name))
	}
	if f.GalleryID != uuid.Nil {
		preds = append(preds, entsql.EQ(colGalleryID, f.GalleryID.String()))
	}
	if f.ActiveAt != nil {
		preds = append(preds, entsql.GTE(colEndTS, f.ActiveAt.Unix()))
	}

	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return entsql.And(preds...)
	}
}

func (d *Driver) selector(category content.Category, f records.Filter) *entsql.Selector {
	b := entsql.Dialect(d.Dialect)
	s := b.Select(colPayload).From(b.Table(TableName(category)))
	if p := predicate(f); p != nil {
		s.Where(p)
	}
	return s.OrderBy(colName, colID)
}

func (d *Driver) query(ctx context.Context, op string, category content.Category, s *entsql.Selector) ([]content.Record, error) {
	stmt, args := s.Query()
	rows, err := d.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &records.OperationError{Op: op, Collection: string(category), Err: err}
	}
	defer rows.Close()

	var out []content.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, &records.OperationError{Op: op, Collection: string(category), Err: err}
		}
		r, err := records.Decode(category, []byte(payload))
		if err != nil {
			return nil, &records.OperationError{Op: op, Collection: string(category), Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &records.OperationError{Op: op, Collection: string(category), Err: err}
	}
	return out, nil
}

func (d *Driver) Find(ctx context.Context, category content.Category, f records.Filter) (content.Record, error) {
	rs, err := d.query(ctx, "find", category, d.selector(category, f).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, records.ErrNotFound
	}
	return rs[0], nil
}

func (d *Driver) BulkFind(ctx context.Context, category content.Category, f records.Filter) ([]content.Record, error) {
	rs, err := d.query(ctx, "bulk_find", category, d.selector(category, f))
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []content.Record{}
	}
	return rs, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *Driver) insert(ctx context.Context, ex execer, r content.Record) error {
	category := r.Category()
	payload, err := json.Marshal(r)
	if err != nil {
		return &records.OperationError{Op: "insert", Collection: string(category), Err: err}
	}

	cols := records.ColumnsOf(r)
	galleryID := ""
	if cols.GalleryID != uuid.Nil {
		galleryID = cols.GalleryID.String()
	}
	var endTS any
	if cols.EndTS != nil {
		endTS = *cols.EndTS
	}

	stmt, args := entsql.Dialect(d.Dialect).
		Insert(TableName(category)).
		Columns(colID, colName, colGalleryID, colEndTS, colPayload).
		Values(r.RecordID().String(), cols.Name, galleryID, endTS, string(payload)).
		Query()

	if _, err := ex.ExecContext(ctx, stmt, args...); err != nil {
		if d.IsConflict != nil && d.IsConflict(err) {
			return fmt.Errorf("%w: %s %q", records.ErrConflict, category, cols.Name)
		}
		return &records.OperationError{Op: "insert", Collection: string(category), Err: err}
	}
	return nil
}

func (d *Driver) Insert(ctx context.Context, r content.Record) error {
	return d.insert(ctx, d.DB, r)
}

// BulkInsert inserts all records in one transaction.
func (d *Driver) BulkInsert(ctx context.Context, rs []content.Record) error {
	if len(rs) == 0 {
		return nil
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return &records.OperationError{Op: "bulk_insert", Collection: string(rs[0].Category()), Err: err}
	}
	defer tx.Rollback()

	for _, r := range rs {
		if err := d.insert(ctx, tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &records.OperationError{Op: "bulk_insert", Collection: string(rs[0].Category()), Err: err}
	}
	return nil
}

func (d *Driver) DeleteMany(ctx context.Context, category content.Category, f records.Filter) (int64, error) {
	del := entsql.Dialect(d.Dialect).Delete(TableName(category))
	if p := predicate(f); p != nil {
		del.Where(p)
	}

	stmt, args := del.Query()
	res, err := d.DB.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, &records.OperationError{Op: "delete_many", Collection: string(category), Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &records.OperationError{Op: "delete_many", Collection: string(category), Err: err}
	}

	if d.Logger != nil {
		d.Logger.Info("deleted records", "collection", category, "count", n)
	}
	return n, nil
}

func (d *Driver) DeleteOne(ctx context.Context, category content.Category, f records.Filter) error {
	r, err := d.Find(ctx, category, f)
	if err != nil {
		return err
	}

	n, err := d.DeleteMany(ctx, category, records.Filter{ID: r.RecordID()})
	if err != nil {
		return err
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (d *Driver) Close() error {
	return d.DB.Close()
}

var _ records.Store = (*Driver)(nil)
