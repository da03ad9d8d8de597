// Package qdrant provides a Qdrant vector database driver over gRPC.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/papercomputeco/artomo/pkg/vector"
)

const (
	// DefaultPort is Qdrant's gRPC port.
	DefaultPort = 6334
)

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Target is the Qdrant gRPC address, e.g. "http://localhost:6334".
	// An https scheme enables TLS.
	Target string

	// APIKey authenticates against Qdrant Cloud. Optional.
	APIKey string

	// Dimensions is the vector size used when a collection is created.
	Dimensions uint64
}

// Driver implements vector.Driver against Qdrant.
type Driver struct {
	client     *qdrant.Client
	dimensions uint64
	logger     *slog.Logger

	// ensured caches collections known to exist.
	ensured sync.Map
}

// NewDriver connects to Qdrant.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.Dimensions == 0 {
		return nil, errors.New("qdrant embedding dimensions cannot be 0, must be configured")
	}

	qc, err := parseTarget(c.Target)
	if err != nil {
		return nil, err
	}
	qc.APIKey = c.APIKey

	client, err := qdrant.NewClient(qc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}

	logger.Info("qdrant vector driver initialized",
		"host", qc.Host,
		"port", qc.Port,
		"tls", qc.UseTLS,
		"dimensions", c.Dimensions,
	)

	return &Driver{
		client:     client,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

func parseTarget(target string) (*qdrant.Config, error) {
	if target == "" {
		return &qdrant.Config{Host: "localhost", Port: DefaultPort}, nil
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid qdrant target %q", target)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port %q: %w", p, err)
		}
	}

	return &qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		UseTLS: u.Scheme == "https",
	}, nil
}

func (d *Driver) ensureCollection(ctx context.Context, name string) error {
	if _, ok := d.ensured.Load(name); ok {
		return nil
	}

	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return classify(err)
	}

	if !exists {
		err := d.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     d.dimensions,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil && status.Code(errors.Unwrap(err)) != codes.AlreadyExists {
			return classify(err)
		}
		d.logger.Info("created qdrant collection", "collection", name, "dimensions", d.dimensions)
	}

	d.ensured.Store(name, struct{}{})
	return nil
}

// Upsert stores documents, waiting for the write to be applied.
func (d *Driver) Upsert(ctx context.Context, name string, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	if err := d.ensureCollection(ctx, name); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		payload, err := qdrant.TryValueMap(doc.Payload)
		if err != nil {
			return fmt.Errorf("converting payload for %s: %w", doc.ID, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: payload,
		})
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return classify(err)
	}

	d.logger.Debug("upserted documents to qdrant", "collection", name, "count", len(docs))
	return nil
}

// Search validates filter fields against the collection's payload schema
// and runs a filtered nearest-neighbour query.
func (d *Driver) Search(ctx context.Context, name string, embedding []float32, limit int, filter vector.Filter) ([]vector.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	if len(filter.Must) > 0 {
		indexes, err := d.indexes(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := filter.Validate(indexes); err != nil {
			return nil, err
		}
	}

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         toQdrantFilter(filter),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, classify(err)
	}

	results := make([]vector.QueryResult, 0, len(points))
	for _, p := range points {
		results = append(results, vector.QueryResult{
			Document: vector.Document{
				ID:      pointID(p.GetId()),
				Payload: fromValueMap(p.GetPayload()),
			},
			Score: p.GetScore(),
		})
	}

	d.logger.Debug("queried qdrant", "collection", name, "results", len(results))
	return results, nil
}

func (d *Driver) indexes(ctx context.Context, name string) (map[string]vector.FieldType, error) {
	info, err := d.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, classify(err)
	}

	out := make(map[string]vector.FieldType, len(info.GetPayloadSchema()))
	for field, schema := range info.GetPayloadSchema() {
		switch schema.GetDataType() {
		case qdrant.PayloadSchemaType_Float, qdrant.PayloadSchemaType_Integer:
			out[field] = vector.FieldFloat
		default:
			out[field] = vector.FieldKeyword
		}
	}
	return out, nil
}

// CreateFieldIndex creates the collection if needed and indexes field.
func (d *Driver) CreateFieldIndex(ctx context.Context, name, field string, fieldType vector.FieldType) error {
	if err := d.ensureCollection(ctx, name); err != nil {
		return err
	}

	ft := qdrant.FieldType_FieldTypeKeyword
	if fieldType == vector.FieldFloat {
		ft = qdrant.FieldType_FieldTypeFloat
	}

	_, err := d.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: name,
		FieldName:      field,
		FieldType:      ft.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return classify(err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", vector.ErrNotFound, name)
	}

	if err := d.client.DeleteCollection(ctx, name); err != nil {
		return classify(err)
	}
	d.ensured.Delete(name)
	return nil
}

func (d *Driver) Close() error {
	return d.client.Close()
}

func toQdrantFilter(f vector.Filter) *qdrant.Filter {
	if len(f.Must) == 0 {
		return nil
	}

	must := make([]*qdrant.Condition, 0, len(f.Must))
	for _, c := range f.Must {
		switch {
		case c.Match != nil:
			must = append(must, qdrant.NewMatch(c.Field, *c.Match))
		case c.Gte != nil:
			must = append(must, qdrant.NewRange(c.Field, &qdrant.Range{Gte: qdrant.PtrOf(*c.Gte)}))
		}
	}
	return &qdrant.Filter{Must: must}
}

func pointID(id *qdrant.PointId) string {
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

func fromValueMap(m map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v *qdrant.Value) any {
	switch k := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return k.StringValue
	case *qdrant.Value_DoubleValue:
		return k.DoubleValue
	case *qdrant.Value_IntegerValue:
		return float64(k.IntegerValue)
	case *qdrant.Value_BoolValue:
		return k.BoolValue
	case *qdrant.Value_StructValue:
		return fromValueMap(k.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		list := make([]any, 0, len(k.ListValue.GetValues()))
		for _, item := range k.ListValue.GetValues() {
			list = append(list, fromValue(item))
		}
		return list
	default:
		return nil
	}
}

// classify maps gRPC status codes onto vector store errors.
func classify(err error) error {
	st, ok := status.FromError(errors.Unwrap(err))
	if !ok {
		st, ok = status.FromError(err)
	}
	if ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return fmt.Errorf("%w: %v", vector.ErrConnection, err)
		case codes.NotFound:
			return fmt.Errorf("%w: %v", vector.ErrNotFound, err)
		}
	}
	return err
}

var _ vector.Driver = (*Driver)(nil)
