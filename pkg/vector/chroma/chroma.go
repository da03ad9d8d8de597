// Package chroma provides a Chroma vector database driver implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/papercomputeco/artomo/pkg/vector"
)

const (
	// DefaultCollectionName is the collection probed at startup.
	DefaultCollectionName = "embedded_exhibitions"

	// DefaultMaxRetries is the number of startup connection attempts.
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the initial delay between startup attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential startup backoff.
	DefaultMaxRetryDelay = 5 * time.Second

	collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

	// indexKeyPrefix marks collection metadata entries that declare a
	// filterable payload field.
	indexKeyPrefix = "artomo:index:"

	// nestedKey lists the payload fields stored as JSON strings.
	nestedKey = "artomo:nested"
)

var errStatus = errors.New("unexpected chroma status")

// Driver implements vector.Driver using Chroma's REST API.
type Driver struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu  sync.Mutex
	ids map[string]string
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// CollectionName is the collection created or fetched at startup.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// MaxRetries is the number of startup attempts made while Chroma is
	// unreachable.
	MaxRetries int

	// RetryDelay is the initial delay between startup attempts.
	RetryDelay time.Duration

	// MaxRetryDelay caps the delay between startup attempts.
	MaxRetryDelay time.Duration
}

// NewDriver creates a new Chroma vector driver. It retries with
// exponential backoff until the startup collection is reachable.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, errors.New("chroma URL is required")
	}

	name := c.CollectionName
	if name == "" {
		name = DefaultCollectionName
	}
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	maxDelay := c.MaxRetryDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxRetryDelay
	}

	d := &Driver{
		baseURL: strings.TrimSuffix(c.URL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
		ids:    make(map[string]string),
	}

	backoff := retry.WithCappedDuration(maxDelay, retry.NewExponential(delay))
	backoff = retry.WithMaxRetries(uint64(maxRetries-1), backoff)

	attempts := 0
	var id string
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		attempts++
		var err error
		id, err = d.collectionID(ctx, name, true)
		if err != nil {
			logger.Warn("chroma not ready", "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to chroma at %s after %d attempts: %v", vector.ErrConnection, c.URL, attempts, err)
	}

	logger.Info("connected to chroma",
		"url", c.URL,
		"collection", name,
		"collection_id", id,
	)

	return d, nil
}

// collectionID resolves a collection name to its ID, creating the
// collection with cosine distance when create is set.
func (d *Driver) collectionID(ctx context.Context, name string, create bool) (string, error) {
	d.mu.Lock()
	id, ok := d.ids[name]
	d.mu.Unlock()
	if ok {
		return id, nil
	}

	coll, err := d.getCollection(ctx, name)
	if err != nil && (!create || !errors.Is(err, vector.ErrNotFound)) {
		return "", err
	}

	if coll == nil {
		coll = &chromaCollection{}
		err = d.do(ctx, http.MethodPost, collectionsPath, chromaCreateRequest{
			Name: name,
			Configuration: map[string]any{
				"hnsw": map[string]any{"space": "cosine"},
			},
			GetOrCreate: true,
		}, coll)
		if err != nil {
			return "", fmt.Errorf("creating collection %q: %w", name, err)
		}
		d.logger.Info("created chroma collection", "collection", name, "collection_id", coll.ID)
	}

	d.mu.Lock()
	d.ids[name] = coll.ID
	d.mu.Unlock()
	return coll.ID, nil
}

func (d *Driver) getCollection(ctx context.Context, name string) (*chromaCollection, error) {
	var coll chromaCollection
	err := d.do(ctx, http.MethodGet, collectionsPath+"/"+url.PathEscape(name), nil, &coll)
	if err != nil {
		return nil, err
	}
	return &coll, nil
}

// Upsert stores documents with their embeddings.
func (d *Driver) Upsert(ctx context.Context, name string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	id, err := d.collectionID(ctx, name, true)
	if err != nil {
		return err
	}

	req := chromaUpsertRequest{
		IDs:        make([]string, len(docs)),
		Embeddings: make([][]float32, len(docs)),
		Metadatas:  make([]map[string]any, len(docs)),
	}
	for i, doc := range docs {
		meta, err := encodeMetadata(doc.Payload)
		if err != nil {
			return fmt.Errorf("encoding payload for %s: %w", doc.ID, err)
		}
		req.IDs[i] = doc.ID
		req.Embeddings[i] = doc.Embedding
		req.Metadatas[i] = meta
	}

	if err := d.do(ctx, http.MethodPost, collectionsPath+"/"+id+"/upsert", req, nil); err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}

	d.logger.Debug("upserted documents to chroma", "collection", name, "count", len(docs))
	return nil
}

// Search finds the most similar documents that satisfy filter.
func (d *Driver) Search(ctx context.Context, name string, embedding []float32, limit int, filter vector.Filter) ([]vector.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	coll, err := d.getCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(indexesFrom(coll.Metadata)); err != nil {
		return nil, err
	}

	var resp chromaQueryResponse
	err = d.do(ctx, http.MethodPost, collectionsPath+"/"+coll.ID+"/query", chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        limit,
		Where:           whereClause(filter),
		Include:         []string{"metadatas", "distances"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}

	results := []vector.QueryResult{}
	if len(resp.IDs) == 0 {
		return results, nil
	}

	ids := resp.IDs[0]
	var distances []float32
	if len(resp.Distances) > 0 {
		distances = resp.Distances[0]
	}
	var metadatas []map[string]any
	if len(resp.Metadatas) > 0 {
		metadatas = resp.Metadatas[0]
	}

	for i, docID := range ids {
		result := vector.QueryResult{Document: vector.Document{ID: docID}}
		if i < len(metadatas) {
			result.Payload = decodeMetadata(metadatas[i])
		}
		// Cosine distance to similarity.
		if i < len(distances) {
			result.Score = 1 - distances[i]
		}
		results = append(results, result)
	}

	d.logger.Debug("queried chroma", "collection", name, "results", len(results))
	return results, nil
}

// CreateFieldIndex records field as filterable in the collection metadata.
// Chroma filters any metadata key, so the declaration only drives
// validation.
func (d *Driver) CreateFieldIndex(ctx context.Context, name, field string, fieldType vector.FieldType) error {
	if _, err := d.collectionID(ctx, name, true); err != nil {
		return err
	}

	coll, err := d.getCollection(ctx, name)
	if err != nil {
		return err
	}

	meta := make(map[string]any, len(coll.Metadata)+1)
	for k, v := range coll.Metadata {
		meta[k] = v
	}
	meta[indexKeyPrefix+field] = fieldType.String()

	err = d.do(ctx, http.MethodPut, collectionsPath+"/"+coll.ID, chromaModifyRequest{NewMetadata: meta}, nil)
	if err != nil {
		return fmt.Errorf("declaring index on %q: %w", field, err)
	}
	return nil
}

func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	if _, err := d.getCollection(ctx, name); err != nil {
		return err
	}

	if err := d.do(ctx, http.MethodDelete, collectionsPath+"/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	d.mu.Lock()
	delete(d.ids, name)
	d.mu.Unlock()
	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	d.httpClient.CloseIdleConnections()
	return nil
}

func (d *Driver) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", vector.ErrNotFound, path)
	case resp.StatusCode >= 300:
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w %d: %s", errStatus, resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func indexesFrom(meta map[string]any) map[string]vector.FieldType {
	out := map[string]vector.FieldType{}
	for k, v := range meta {
		field, ok := strings.CutPrefix(k, indexKeyPrefix)
		if !ok {
			continue
		}
		if v == vector.FieldFloat.String() {
			out[field] = vector.FieldFloat
		} else {
			out[field] = vector.FieldKeyword
		}
	}
	return out
}

func whereClause(f vector.Filter) map[string]any {
	clauses := make([]map[string]any, 0, len(f.Must))
	for _, c := range f.Must {
		switch {
		case c.Match != nil:
			clauses = append(clauses, map[string]any{c.Field: map[string]any{"$eq": *c.Match}})
		case c.Gte != nil:
			clauses = append(clauses, map[string]any{c.Field: map[string]any{"$gte": *c.Gte}})
		}
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		and := make([]any, len(clauses))
		for i, c := range clauses {
			and[i] = c
		}
		return map[string]any{"$and": and}
	}
}

// encodeMetadata flattens a payload into Chroma's scalar-only metadata.
// Nested values are stored as JSON strings and listed under nestedKey.
func encodeMetadata(payload map[string]any) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	meta := make(map[string]any, len(payload))
	var nested []string
	for k, v := range payload {
		switch v.(type) {
		case nil:
			continue
		case string, bool, float64, float32, int, int64:
			meta[k] = v
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			meta[k] = string(b)
			nested = append(nested, k)
		}
	}
	if len(nested) > 0 {
		sort.Strings(nested)
		meta[nestedKey] = strings.Join(nested, ",")
	}
	return meta, nil
}

func decodeMetadata(meta map[string]any) map[string]any {
	payload := make(map[string]any, len(meta))
	for k, v := range meta {
		if k != nestedKey {
			payload[k] = v
		}
	}

	keys, _ := meta[nestedKey].(string)
	if keys == "" {
		return payload
	}
	for _, k := range strings.Split(keys, ",") {
		s, ok := payload[k].(string)
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			payload[k] = v
		}
	}
	return payload
}

var _ vector.Driver = (*Driver)(nil)
