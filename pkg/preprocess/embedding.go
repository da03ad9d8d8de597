package preprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/embeddings"
)

// EmbedMapper pairs one cleaned record with its vector.
type EmbedMapper func(c content.Cleaned, vector []float32, meta content.EmbeddingMetadata) (content.Embedded, error)

// EmbeddingHandlers has one mapper per category. A nil field means the
// category is never embedded.
type EmbeddingHandlers struct {
	Gallery    EmbedMapper
	Exhibition EmbedMapper
	User       EmbedMapper
	Prompt     EmbedMapper
	Query      EmbedMapper
	Reflection EmbedMapper
}

// DefaultEmbeddingHandlers embeds exhibitions, reflections and queries.
// Galleries, users and prompts have no embedded form.
func DefaultEmbeddingHandlers() EmbeddingHandlers {
	return EmbeddingHandlers{
		Exhibition: MapExhibition,
		Query:      MapQuery,
		Reflection: MapReflection,
	}
}

func (h EmbeddingHandlers) lookup(c content.Category) EmbedMapper {
	switch c {
	case content.CategoryGallery:
		return h.Gallery
	case content.CategoryExhibition:
		return h.Exhibition
	case content.CategoryUser:
		return h.User
	case content.CategoryPrompt:
		return h.Prompt
	case content.CategoryQuery:
		return h.Query
	case content.CategoryReflection:
		return h.Reflection
	default:
		return nil
	}
}

func MapExhibition(c content.Cleaned, vector []float32, meta content.EmbeddingMetadata) (content.Embedded, error) {
	e, ok := c.(*content.CleanedExhibition)
	if !ok {
		return nil, fmt.Errorf("exhibition embedding handler got %T", c)
	}
	return &content.EmbeddedExhibition{CleanedExhibition: *e, Embedding: vector, Metadata: meta}, nil
}

func MapReflection(c content.Cleaned, vector []float32, meta content.EmbeddingMetadata) (content.Embedded, error) {
	r, ok := c.(*content.CleanedReflection)
	if !ok {
		return nil, fmt.Errorf("reflection embedding handler got %T", c)
	}
	return &content.EmbeddedReflection{CleanedReflection: *r, Embedding: vector, Metadata: meta}, nil
}

func MapQuery(c content.Cleaned, vector []float32, meta content.EmbeddingMetadata) (content.Embedded, error) {
	q, ok := c.(*content.CleanedQuery)
	if !ok {
		return nil, fmt.Errorf("query embedding handler got %T", c)
	}
	return &content.EmbeddedQuery{CleanedQuery: *q, Embedding: vector, Metadata: meta}, nil
}

// EmbeddingDispatcher embeds same-category batches with one model call.
type EmbeddingDispatcher struct {
	embedder embeddings.Embedder
	handlers EmbeddingHandlers
	logger   *slog.Logger
}

func NewEmbeddingDispatcher(embedder embeddings.Embedder, handlers EmbeddingHandlers, logger *slog.Logger) *EmbeddingDispatcher {
	return &EmbeddingDispatcher{embedder: embedder, handlers: handlers, logger: logger}
}

// EmbedBatch embeds docs, which must share a category. Output order matches
// input order. An empty batch returns an empty result without calling the
// model.
func (d *EmbeddingDispatcher) EmbedBatch(ctx context.Context, docs []content.Cleaned) ([]content.Embedded, error) {
	if len(docs) == 0 {
		return []content.Embedded{}, nil
	}

	category := docs[0].Category()
	for _, doc := range docs[1:] {
		if doc.Category() != category {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedCategories, category, doc.Category())
		}
	}

	mapper := d.handlers.lookup(category)
	if mapper == nil {
		return nil, missingHandler(stageEmbedding, category)
	}

	inputs := make([]string, len(docs))
	for i, doc := range docs {
		inputs[i] = doc.EmbeddingText()
	}

	vectors, err := d.embedder.EmbedBatch(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embedding %d %s documents: %w", len(docs), category, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d for %d inputs", embeddings.ErrEmbeddingCount, len(vectors), len(docs))
	}

	info := d.embedder.Info()
	meta := content.EmbeddingMetadata{
		ModelID:        info.ModelID,
		Size:           info.Dimensions,
		MaxInputLength: info.MaxInputLength,
	}

	out := make([]content.Embedded, len(docs))
	for i, doc := range docs {
		embedded, err := mapper(doc, vectors[i], meta)
		if err != nil {
			return nil, err
		}
		out[i] = embedded
	}

	d.logger.Debug("documents embedded", "category", category, "count", len(out), "model", meta.ModelID)

	return out, nil
}

// Embed embeds a single document as a batch of one.
func (d *EmbeddingDispatcher) Embed(ctx context.Context, doc content.Cleaned) (content.Embedded, error) {
	out, err := d.EmbedBatch(ctx, []content.Cleaned{doc})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedQuery cleans and embeds a query through the query handler.
func (d *EmbeddingDispatcher) EmbedQuery(ctx context.Context, q *content.Query) (*content.EmbeddedQuery, error) {
	embedded, err := d.Embed(ctx, CleanQuery(q))
	if err != nil {
		return nil, err
	}

	eq, ok := embedded.(*content.EmbeddedQuery)
	if !ok {
		return nil, fmt.Errorf("query embedding handler produced %T", embedded)
	}
	return eq, nil
}
