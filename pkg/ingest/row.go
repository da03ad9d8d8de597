// Package ingest merges crawled spreadsheet rows into the record store
// without duplicating galleries or exhibitions.
package ingest

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
)

// Spreadsheet column headers.
const (
	ColArea                          = "Area"
	ColGalleryNameEnglish            = "Gallery Name English"
	ColGalleryNameJapanese           = "Gallery Name Japanese"
	ColGalleryDescription            = "Gallery Description From Website"
	ColGalleryImageURL               = "Gallery Image URL"
	ColWebsite                       = "Website"
	ColHours                         = "Hours"
	ColPhoneNumber                   = "Phone Number"
	ColAddressJapanese               = "Address Japanese"
	ColAddressEnglish                = "Address English"
	ColExhibitionName                = "Exhibition Name"
	ColExhibitionNameJapanese        = "Exhibition Name Japanese"
	ColExhibitionNameEnglish         = "Exhibition Name English"
	ColExhibitionDescription         = "Exhibition Description From Website"
	ColExhibitionDescriptionJapanese = "Exhibition Description From Website (Japanese)"
	ColExhibitionDescriptionEnglish  = "Exhibition Description From Website (English)"
	ColArtist                        = "Artist"
	ColExhibitionImageURL            = "Exhibition Image URL"
	ColStartDate                     = "Exhibition Start Date"
	ColEndDate                       = "Exhibition End Date"
	ColLatitude                      = "Latitude"
	ColLongitude                     = "Longitude"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

var errMissing = errors.New("required value is empty")

// Row is one crawled spreadsheet row keyed by column header.
type Row map[string]string

// RowSource yields the rows of one crawl target.
type RowSource interface {
	Rows(ctx context.Context) ([]Row, error)
}

// NewRow zips a header line with a line of cells. Missing cells become
// empty strings and surrounding whitespace is trimmed.
func NewRow(headers, cells []string) Row {
	r := make(Row, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(cells) {
			r[h] = strings.TrimSpace(cells[i])
		} else {
			r[h] = ""
		}
	}
	return r
}

// Get returns the cell under col, or "" when absent.
func (r Row) Get(col string) string {
	return r[col]
}

func (r Row) required(col string) (string, error) {
	v := r.Get(col)
	if v == "" {
		return "", &content.MalformedInputError{Field: col, Value: v, Err: errMissing}
	}
	return v, nil
}

func (r Row) float(col string) (float64, error) {
	v := r.Get(col)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &content.MalformedInputError{Field: col, Value: v, Err: err}
	}
	return f, nil
}

// ParseDate parses a sheet date at midnight in loc.
func ParseDate(col, v string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(v), loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &content.MalformedInputError{Field: col, Value: v, Err: lastErr}
}

// Gallery builds the gallery described by the row. The English gallery
// name is the gallery's identity.
func (r Row) Gallery() (*content.Gallery, error) {
	name, err := r.required(ColGalleryNameEnglish)
	if err != nil {
		return nil, err
	}
	lat, err := r.float(ColLatitude)
	if err != nil {
		return nil, err
	}
	lng, err := r.float(ColLongitude)
	if err != nil {
		return nil, err
	}

	return &content.Gallery{
		Base:            content.NewBase(),
		Name:            name,
		NameJapanese:    r.Get(ColGalleryNameJapanese),
		NameEnglish:     name,
		Description:     r.Get(ColGalleryDescription),
		AddressJapanese: r.Get(ColAddressJapanese),
		AddressEnglish:  r.Get(ColAddressEnglish),
		Area:            r.Get(ColArea),
		ImageURL:        r.Get(ColGalleryImageURL),
		Website:         r.Get(ColWebsite),
		Hours:           r.Get(ColHours),
		Latitude:        lat,
		Longitude:       lng,
		PhoneNumber:     r.Get(ColPhoneNumber),
	}, nil
}

// Exhibition builds the exhibition described by the row, linked to
// galleryID.
func (r Row) Exhibition(galleryID uuid.UUID, loc *time.Location) (*content.Exhibition, error) {
	name, err := r.required(ColExhibitionName)
	if err != nil {
		return nil, err
	}
	start, err := ParseDate(ColStartDate, r.Get(ColStartDate), loc)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(ColEndDate, r.Get(ColEndDate), loc)
	if err != nil {
		return nil, err
	}
	lat, err := r.float(ColLatitude)
	if err != nil {
		return nil, err
	}
	lng, err := r.float(ColLongitude)
	if err != nil {
		return nil, err
	}

	return &content.Exhibition{
		Base:                content.NewBase(),
		Name:                name,
		NameJapanese:        r.Get(ColExhibitionNameJapanese),
		NameEnglish:         r.Get(ColExhibitionNameEnglish),
		Area:                r.Get(ColArea),
		Description:         r.Get(ColExhibitionDescription),
		DescriptionJapanese: r.Get(ColExhibitionDescriptionJapanese),
		DescriptionEnglish:  r.Get(ColExhibitionDescriptionEnglish),
		Artist:              r.Get(ColArtist),
		ImageURL:            r.Get(ColExhibitionImageURL),
		StartDate:           start,
		EndDate:             end,
		StartDateTS:         float64(start.Unix()),
		EndDateTS:           float64(end.Unix()),
		GalleryID:           galleryID,
		Latitude:            lat,
		Longitude:           lng,
	}, nil
}
