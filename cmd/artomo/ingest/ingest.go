// Package ingestcmder provides the ingest command that crawls the gallery
// sheet into the record store.
package ingestcmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/papercomputeco/artomo/cmd/artomo/bootstrap"
	"github.com/papercomputeco/artomo/pkg/cliui"
	"github.com/papercomputeco/artomo/pkg/config"
	"github.com/papercomputeco/artomo/pkg/ingest"
	"github.com/papercomputeco/artomo/pkg/ingest/csvsource"
	"github.com/papercomputeco/artomo/pkg/ingest/sheets"
)

const ingestLongDesc string = `Crawl galleries and exhibitions into the record store.

The source is either a Google Sheets link (or bare spreadsheet id) or a
local CSV export with the same header row. Each row yields one gallery and
one exhibition. Galleries are matched by name and exhibitions by name and
gallery, so re-running the crawl only adds what is new.

With --watch, a CSV source is re-ingested every time the file changes.

Examples:
  artomo ingest --source https://docs.google.com/spreadsheets/d/<id>/edit
  artomo ingest --source ./galleries.csv --workers 4
  artomo ingest --source ./galleries.csv --watch`

const ingestShortDesc string = "Crawl the gallery sheet into the record store"

var ingestFlags = append([]string{
	config.FlagIngestSource,
	config.FlagIngestWorkers,
}, config.StorageFlags...)

type ingestCommander struct {
	credentialsFile string
	apiKey          string
	watch           bool

	cfg    *config.Config
	logger *slog.Logger
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = bootstrap.Load(cmd, ingestFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := bootstrap.Logger(cmd, "ingest")
			if err != nil {
				return err
			}
			cmder.logger = log
			return cmder.run(cmd.Context())
		},
	}

	config.AddFlags(cmd, config.Flags, ingestFlags...)
	cmd.Flags().StringVar(&cmder.credentialsFile, "credentials", "", "Google service account JSON file")
	cmd.Flags().StringVar(&cmder.apiKey, "google-api-key", "", "Google API key for public sheets")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Re-ingest a CSV source whenever it changes")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := strings.TrimSpace(c.cfg.Ingest.Source)
	if source == "" {
		return errors.New("no source given; pass --source or set ingest.source")
	}

	isCSV := IsCSVSource(source)
	if c.watch && !isCSV {
		return errors.New("--watch only works with a CSV source")
	}

	loc, err := time.LoadLocation(c.cfg.Ingest.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", c.cfg.Ingest.Timezone, err)
	}

	store, err := bootstrap.NewStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := c.rowSource(ctx, source, isCSV)
	if err != nil {
		return err
	}

	ingester := ingest.NewIngester(store, c.logger,
		ingest.WithWorkers(int(c.cfg.Ingest.Workers)),
		ingest.WithLocation(loc),
	)

	if err := c.ingestOnce(ctx, ingester, rows, source); err != nil {
		return err
	}

	if !c.watch {
		return nil
	}

	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Watching "+source+" for changes (ctrl-c to stop)"))
	return Watch(ctx, source, c.logger, func(ctx context.Context) error {
		return c.ingestOnce(ctx, ingester, rows, source)
	})
}

func (c *ingestCommander) rowSource(ctx context.Context, source string, isCSV bool) (ingest.RowSource, error) {
	if isCSV {
		return csvsource.New(source), nil
	}

	var opts []option.ClientOption
	switch {
	case c.credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(c.credentialsFile))
	case c.apiKey != "":
		opts = append(opts, option.WithAPIKey(c.apiKey))
	}

	src, err := sheets.NewSource(ctx, source, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	return src, nil
}

func (c *ingestCommander) ingestOnce(ctx context.Context, ingester *ingest.Ingester, rows ingest.RowSource, source string) error {
	var result ingest.Result
	err := cliui.Step(os.Stdout, "Ingesting "+source, func() error {
		var err error
		result, err = ingester.IngestSource(ctx, rows)
		return err
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(r ingest.Result) {
	fmt.Printf("\n  %s Added %s galleries and %s exhibitions %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(r.AddedGalleries)),
		cliui.NameStyle.Render(strconv.Itoa(r.AddedExhibitions)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d already stored)", r.SkippedExhibitions)),
	)
	if r.FailedRows > 0 {
		fmt.Printf("  %s %s\n", cliui.FailMark, cliui.WarnStyle.Render(fmt.Sprintf("%d rows failed, see the log for details", r.FailedRows)))
	}
	fmt.Println()
}

// IsCSVSource reports whether source names a local CSV file rather than a
// spreadsheet.
func IsCSVSource(source string) bool {
	if strings.HasSuffix(strings.ToLower(source), ".csv") {
		return true
	}
	if strings.Contains(source, "://") {
		return false
	}
	info, err := os.Stat(source)
	return err == nil && !info.IsDir()
}

