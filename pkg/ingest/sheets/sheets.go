// Package sheets reads ingestion rows from the first worksheet of a Google
// Sheets document.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/papercomputeco/artomo/pkg/ingest"
)

var (
	spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	bareIDPattern        = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

// SpreadsheetID extracts the document ID from a sheet URL. A bare ID is
// returned unchanged.
func SpreadsheetID(link string) (string, error) {
	if m := spreadsheetIDPattern.FindStringSubmatch(link); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(link) {
		return link, nil
	}
	return "", fmt.Errorf("no spreadsheet id in %q", link)
}

// Source reads one spreadsheet.
type Source struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSource creates a read-only Sheets client for link. Pass
// option.WithCredentialsFile to authenticate with a service account.
func NewSource(ctx context.Context, link string, opts ...option.ClientOption) (*Source, error) {
	id, err := SpreadsheetID(link)
	if err != nil {
		return nil, err
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Source{service: svc, spreadsheetID: id}, nil
}

// Rows reads every row of the first worksheet, using the first row as
// headers.
func (s *Source) Rows(ctx context.Context) ([]ingest.Row, error) {
	doc, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", s.spreadsheetID, err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return nil, errors.New("spreadsheet has no worksheets")
	}
	title := doc.Sheets[0].Properties.Title

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "'"+title+"'").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", title, err)
	}

	return toRows(resp.Values), nil
}

func toRows(values [][]any) []ingest.Row {
	rows := []ingest.Row{}
	if len(values) == 0 {
		return rows
	}

	headers := cells(values[0])
	for _, line := range values[1:] {
		rows = append(rows, ingest.NewRow(headers, cells(line)))
	}
	return rows
}

func cells(line []any) []string {
	out := make([]string, len(line))
	for i, v := range line {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

var _ ingest.RowSource = (*Source)(nil)
