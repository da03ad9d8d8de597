// Package csvsource reads ingestion rows from a CSV export of the gallery
// spreadsheet. The first line holds the column headers.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/papercomputeco/artomo/pkg/ingest"
)

// Source reads rows from a CSV file.
type Source struct {
	Path string
}

func New(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) Rows(ctx context.Context) ([]ingest.Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.Path, err)
	}
	defer f.Close()

	return Read(ctx, f)
}

// Read parses CSV from r. Short lines are padded with empty cells.
func Read(ctx context.Context, r io.Reader) ([]ingest.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []ingest.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	rows := []ingest.Row{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", len(rows)+2, err)
		}
		rows = append(rows, ingest.NewRow(headers, cells))
	}
	return rows, nil
}

var _ ingest.RowSource = (*Source)(nil)
