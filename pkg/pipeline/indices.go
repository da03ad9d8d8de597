package pipeline

import (
	"context"
	"log/slog"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/vector"
)

// ExhibitionIndexFields maps every exhibition payload field to its index
// type. The epoch-second date fields are float for range conditions.
var ExhibitionIndexFields = map[string]vector.FieldType{
	"name":                     vector.FieldKeyword,
	"name_japanese":            vector.FieldKeyword,
	"name_english":             vector.FieldKeyword,
	"area":                     vector.FieldKeyword,
	"description":              vector.FieldKeyword,
	"description_japanese":     vector.FieldKeyword,
	"description_english":      vector.FieldKeyword,
	"artist":                   vector.FieldKeyword,
	"exhibition_image_url":     vector.FieldKeyword,
	"exhibition_start_date":    vector.FieldKeyword,
	"exhibition_end_date":      vector.FieldKeyword,
	"exhibition_start_date_ts": vector.FieldFloat,
	"exhibition_end_date_ts":   vector.FieldFloat,
	"gallery_id":               vector.FieldKeyword,
	"latitude":                 vector.FieldKeyword,
	"longitude":                vector.FieldKeyword,
}

// InitializeIndices declares the exhibition payload indexes. Failures are
// logged as warnings since the index may already exist. It returns the
// number of indexes created.
func InitializeIndices(ctx context.Context, driver vector.Driver, logger *slog.Logger) int {
	created := 0
	for _, field := range sortedKeys(ExhibitionIndexFields) {
		fieldType := ExhibitionIndexFields[field]
		if err := driver.CreateFieldIndex(ctx, content.ExhibitionsCollection, field, fieldType); err != nil {
			logger.Warn("creating payload index",
				"collection", content.ExhibitionsCollection,
				"field", field,
				"type", fieldType,
				"error", err,
			)
			continue
		}
		created++
	}
	logger.Info("payload indexes initialized", "collection", content.ExhibitionsCollection, "created", created)
	return created
}
