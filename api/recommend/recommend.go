// Package recommend turns a query into exhibition cards and a written
// recommendation. It is shared by the REST API and the MCP server.
package recommend

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/eventstream"
	"github.com/papercomputeco/artomo/pkg/records"
)

// DefaultK is the number of results requested from the retriever.
const DefaultK = 10

// Searcher ranks exhibitions for a query.
type Searcher interface {
	Search(ctx context.Context, q *content.Query, k int, filters map[string]any) ([]*content.EmbeddedExhibition, error)
}

// Writer writes the recommendation report for a shortlist.
type Writer interface {
	Recommendation(ctx context.Context, q *content.Query, filters map[string]string, docs []*content.EmbeddedExhibition) (string, error)
}

// Card is one recommended exhibition joined with its gallery. Gallery
// fields are empty when the gallery reference does not resolve.
type Card struct {
	UID                   string `json:"UID"`
	Descriptions          string `json:"descriptions"`
	ExhibitionName        string `json:"Exhibition Name"`
	ExhibitionNameEnglish string `json:"Exhibition Name English"`
	ExhibitionImageURL    string `json:"Exhibition Image URL"`
	ExhibitionStartDate   string `json:"Exhibition Start Date"`
	ExhibitionEndDate     string `json:"Exhibition End Date"`
	Artist                string `json:"Artist"`
	GalleryNameEnglish    string `json:"Gallery Name English"`
	GalleryNameJapanese   string `json:"Gallery Name Japanese"`
	Area                  string `json:"Area"`
	AddressEnglish        string `json:"Address English"`
	Hours                 string `json:"Hours"`
	Website               string `json:"Website"`
	Latitude              string `json:"Latitude"`
	Longitude             string `json:"Longitude"`
}

// Output is the result of one recommendation.
type Output struct {
	RecommendedExhibitions []Card `json:"recommended_exhibitions"`
	Report                 string `json:"report"`
}

// Recommender runs retrieval, joins galleries, queues per-exhibition
// reports and writes the overall recommendation.
type Recommender struct {
	searcher  Searcher
	writer    Writer
	store     records.Store
	publisher eventstream.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

func NewRecommender(searcher Searcher, writer Writer, store records.Store, publisher eventstream.Publisher, logger *slog.Logger) *Recommender {
	return &Recommender{
		searcher:  searcher,
		writer:    writer,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Recommend answers a structured query. A malformed query is returned as a
// *content.MalformedInputError; any other retrieval failure is logged and
// yields an empty result.
func (r *Recommender) Recommend(ctx context.Context, facets map[string]string, filters map[string]string) (*Output, error) {
	q := content.NewStructuredQuery(facets)
	logger := r.logger.With("query", q.Content)

	docs, err := r.searcher.Search(ctx, q, DefaultK, anyFilters(filters))
	if err != nil {
		var malformed *content.MalformedInputError
		if errors.As(err, &malformed) {
			return nil, err
		}
		logger.Error("retrieving exhibitions", "error", err)
		return &Output{RecommendedExhibitions: []Card{}}, nil
	}
	if len(docs) == 0 {
		logger.Info("no exhibitions matched")
		return &Output{RecommendedExhibitions: []Card{}}, nil
	}

	cards := make([]Card, 0, len(docs))
	for _, doc := range docs {
		cards = append(cards, r.card(ctx, doc))
	}

	for _, doc := range docs {
		event := eventstream.NewReportRequestedEvent(doc.ID, facets, r.now())
		if err := r.publisher.PublishReportRequest(ctx, event); err != nil {
			logger.Error("queueing exhibition report", "exhibition_id", doc.ID, "error", err)
		}
	}

	report, err := r.writer.Recommendation(ctx, q, filters, docs)
	if err != nil {
		return nil, err
	}

	logger.Info("recommendation complete", "exhibitions", len(cards))
	return &Output{RecommendedExhibitions: cards, Report: report}, nil
}

func (r *Recommender) card(ctx context.Context, doc *content.EmbeddedExhibition) Card {
	c := Card{
		UID:                   doc.ID.String(),
		Descriptions:          doc.Description,
		ExhibitionName:        doc.Name,
		ExhibitionNameEnglish: doc.NameEnglish,
		ExhibitionImageURL:    doc.ImageURL,
		ExhibitionStartDate:   formatDate(doc.StartDate),
		ExhibitionEndDate:     formatDate(doc.EndDate),
		Artist:                doc.Artist,
	}

	if doc.GalleryID == uuid.Nil {
		return c
	}

	gallery, err := records.GalleryByID(ctx, r.store, doc.GalleryID)
	if err != nil {
		r.logger.Info("gallery not found", "gallery_id", doc.GalleryID, "error", err)
		return c
	}

	c.GalleryNameEnglish = gallery.NameEnglish
	c.GalleryNameJapanese = gallery.NameJapanese
	c.Area = gallery.Area
	c.AddressEnglish = gallery.AddressEnglish
	c.Hours = gallery.Hours
	c.Website = gallery.Website
	c.Latitude = strconv.FormatFloat(gallery.Latitude, 'f', -1, 64)
	c.Longitude = strconv.FormatFloat(gallery.Longitude, 'f', -1, 64)
	return c
}

func anyFilters(filters map[string]string) map[string]any {
	out := make(map[string]any, len(filters))
	for k, v := range filters {
		out[k] = v
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
