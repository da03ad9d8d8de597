// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/artomo/pkg/vector"
)

var identifier = regexp.MustCompile(`^[a-z0-9_]+$`)

// Driver implements vector.Driver using SQLite with sqlite-vec.
// Each collection is a table of documents; search is an exact scan ranked
// by vec_distance_cosine.
type Driver struct {
	db         *sql.DB
	dimensions uint
	logger     *slog.Logger
}

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewDriver creates a new SQLite vector driver backed by sqlite-vec.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, errors.New("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, errors.New("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_field_indexes (
			collection TEXT NOT NULL,
			field TEXT NOT NULL,
			field_type TEXT NOT NULL,
			PRIMARY KEY (collection, field)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating field index registry: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		"db_path", c.DBPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &Driver{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

func tableName(collection string) (string, error) {
	if !identifier.MatchString(collection) {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	return "vec_" + collection, nil
}

func jsonPath(field string) string {
	return `$."` + field + `"`
}

func (d *Driver) ensureTable(ctx context.Context, collection string) (string, error) {
	table, err := tableName(collection)
	if err != nil {
		return "", err
	}

	_, err = d.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			doc_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL DEFAULT '{}',
			embedding BLOB NOT NULL
		)
	`, table))
	if err != nil {
		return "", fmt.Errorf("creating collection table %s: %w", table, err)
	}
	return table, nil
}

func (d *Driver) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to a float32 slice.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Upsert stores documents with their embeddings.
// If a document with the same ID already exists, it is replaced.
func (d *Driver) Upsert(ctx context.Context, collection string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	table, err := d.ensureTable(ctx, collection)
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`
		INSERT INTO %s(doc_id, payload, embedding) VALUES (?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET payload = excluded.payload, embedding = excluded.embedding
	`, table)

	for _, doc := range docs {
		if uint(len(doc.Embedding)) != d.dimensions {
			return fmt.Errorf("document %s has %d dimensions, expected %d", doc.ID, len(doc.Embedding), d.dimensions)
		}

		payload, err := json.Marshal(doc.Payload)
		if err != nil {
			return fmt.Errorf("encoding payload for doc %s: %w", doc.ID, err)
		}

		if _, err := tx.ExecContext(ctx, stmt, doc.ID, string(payload), serializeFloat32(doc.Embedding)); err != nil {
			return fmt.Errorf("upserting document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("upserted documents to sqlite-vec", "collection", collection, "count", len(docs))
	return nil
}

func (d *Driver) indexes(ctx context.Context, collection string) (map[string]vector.FieldType, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT field, field_type FROM vec_field_indexes WHERE collection = ?`, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("loading field indexes: %w", err)
	}
	defer rows.Close()

	out := map[string]vector.FieldType{}
	for rows.Next() {
		var field, ft string
		if err := rows.Scan(&field, &ft); err != nil {
			return nil, fmt.Errorf("scanning field index: %w", err)
		}
		if ft == vector.FieldFloat.String() {
			out[field] = vector.FieldFloat
		} else {
			out[field] = vector.FieldKeyword
		}
	}
	return out, rows.Err()
}

// Search ranks the documents satisfying filter by cosine similarity.
func (d *Driver) Search(ctx context.Context, collection string, embedding []float32, limit int, filter vector.Filter) ([]vector.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}
	exists, err := d.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", vector.ErrNotFound, collection)
	}

	indexes, err := d.indexes(ctx, collection)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(indexes); err != nil {
		return nil, err
	}

	args := []any{serializeFloat32(embedding)}
	var where []string
	for _, c := range filter.Must {
		switch {
		case c.Match != nil:
			where = append(where, "CAST(json_extract(payload, ?) AS TEXT) = ?")
			args = append(args, jsonPath(c.Field), *c.Match)
		case c.Gte != nil:
			where = append(where, "json_extract(payload, ?) >= ?")
			args = append(args, jsonPath(c.Field), *c.Gte)
		}
	}

	query := fmt.Sprintf(`SELECT doc_id, payload, vec_distance_cosine(embedding, ?) AS distance FROM %s`, table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY distance, doc_id LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	results := []vector.QueryResult{}
	for rows.Next() {
		var docID, payload string
		var distance float64
		if err := rows.Scan(&docID, &payload, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		doc := vector.Document{ID: docID}
		if err := json.Unmarshal([]byte(payload), &doc.Payload); err != nil {
			return nil, fmt.Errorf("decoding payload for doc %s: %w", docID, err)
		}

		results = append(results, vector.QueryResult{
			Document: doc,
			Score:    float32(1 - distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried sqlite-vec", "collection", collection, "results", len(results))
	return results, nil
}

// CreateFieldIndex registers field as filterable and adds an expression
// index over its JSON path.
func (d *Driver) CreateFieldIndex(ctx context.Context, collection, field string, fieldType vector.FieldType) error {
	if !identifier.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}

	table, err := d.ensureTable(ctx, collection)
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO vec_field_indexes(collection, field, field_type) VALUES (?, ?, ?)
		ON CONFLICT(collection, field) DO UPDATE SET field_type = excluded.field_type
	`, collection, field, fieldType.String())
	if err != nil {
		return fmt.Errorf("registering field index %s: %w", field, err)
	}

	_, err = d.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (json_extract(payload, '%s'))`,
		table, field, table, jsonPath(field),
	))
	if err != nil {
		return fmt.Errorf("creating field index %s: %w", field, err)
	}
	return nil
}

func (d *Driver) DeleteCollection(ctx context.Context, collection string) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	exists, err := d.tableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", vector.ErrNotFound, collection)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE "+table); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vec_field_indexes WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clearing field indexes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Info("deleted sqlite-vec collection", "collection", collection)
	return nil
}

// Embedding returns the stored vector for a document.
func (d *Driver) Embedding(ctx context.Context, collection, docID string) ([]float32, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	var blob []byte
	err = d.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT embedding FROM %s WHERE doc_id = ?`, table), docID,
	).Scan(&blob)
	if err != nil {
		return nil, fmt.Errorf("loading embedding for doc %s: %w", docID, err)
	}
	return deserializeFloat32(blob)
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ vector.Driver = (*Driver)(nil)
