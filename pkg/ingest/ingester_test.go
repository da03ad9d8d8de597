package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/ingest"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/records/inmemory"
)

func row(gallery, exhibition, start, end string) ingest.Row {
	return ingest.Row{
		ingest.ColGalleryNameEnglish:    gallery,
		ingest.ColExhibitionName:        exhibition,
		ingest.ColArea:                  "Ginza",
		ingest.ColExhibitionDescription: "Works on paper",
		ingest.ColStartDate:             start,
		ingest.ColEndDate:               end,
		ingest.ColLatitude:              "35.67",
		ingest.ColLongitude:             "139.76",
	}
}

// failingExhibitionFinds wraps a store and fails every exhibition lookup
// with a backend error.
type failingExhibitionFinds struct {
	records.Store
}

func (f failingExhibitionFinds) Find(ctx context.Context, category content.Category, filter records.Filter) (content.Record, error) {
	if category == content.CategoryExhibition {
		return nil, &records.OperationError{Op: "find", Err: errors.New("connection reset")}
	}
	return f.Store.Find(ctx, category, filter)
}

var _ = Describe("Ingester", func() {
	var (
		ctx   context.Context
		store *inmemory.Driver
		tokyo *time.Location
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewDriver()
		tokyo = time.FixedZone("JST", 9*60*60)
	})

	It("creates galleries and exhibitions", func() {
		ing := ingest.NewIngester(store, artomologger.Nop(), ingest.WithLocation(tokyo))
		res := ing.Ingest(ctx, []ingest.Row{
			row("SCAI", "Echoes", "2026-05-01", "2026-06-01"),
			row("SCAI", "Drift", "2026/05/01", "2026/07/01"),
			row("Ota", "Echoes", "2026-05-01", "2026-06-01"),
		})
		Expect(res).To(Equal(ingest.Result{AddedGalleries: 2, AddedExhibitions: 3}))

		g, err := records.FindGallery(ctx, store, "SCAI")
		Expect(err).NotTo(HaveOccurred())
		e, err := records.FindExhibition(ctx, store, "Drift", g.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.EndDate).To(BeTemporally("==", time.Date(2026, 7, 1, 0, 0, 0, 0, tokyo)))
		Expect(e.EndDateTS).To(Equal(float64(e.EndDate.Unix())))
		Expect(e.Latitude).To(Equal(35.67))
	})

	It("is idempotent", func() {
		rows := []ingest.Row{
			row("SCAI", "Echoes", "2026-05-01", "2026-06-01"),
			row("Ota", "Drift", "2026-05-01", "2026-06-01"),
		}
		ing := ingest.NewIngester(store, artomologger.Nop())

		first := ing.Ingest(ctx, rows)
		Expect(first.AddedExhibitions).To(Equal(2))

		second := ing.Ingest(ctx, rows)
		Expect(second).To(Equal(ingest.Result{SkippedExhibitions: 2}))

		all, err := store.BulkFind(ctx, content.CategoryExhibition, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("counts malformed rows and continues", func() {
		ing := ingest.NewIngester(store, artomologger.Nop())
		res := ing.Ingest(ctx, []ingest.Row{
			row("SCAI", "Echoes", "first of may", "2026-06-01"),
			row("", "Nameless gallery", "2026-05-01", "2026-06-01"),
			row("Ota", "", "2026-05-01", "2026-06-01"),
			row("Ota", "Drift", "2026-05-01", "2026-06-01"),
		})
		Expect(res).To(Equal(ingest.Result{AddedGalleries: 1, AddedExhibitions: 1, FailedRows: 3}))

		_, err := records.FindGallery(ctx, store, "SCAI")
		Expect(err).To(MatchError(records.ErrNotFound))
	})

	It("falls back to the unique constraint when lookups fail", func() {
		ing := ingest.NewIngester(failingExhibitionFinds{Store: store}, artomologger.Nop())
		rows := []ingest.Row{row("SCAI", "Echoes", "2026-05-01", "2026-06-01")}
		Expect(ing.Ingest(ctx, rows)).To(Equal(ingest.Result{AddedGalleries: 1, AddedExhibitions: 1}))
		Expect(ing.Ingest(ctx, rows)).To(Equal(ingest.Result{SkippedExhibitions: 1}))

		all, err := store.BulkFind(ctx, content.CategoryExhibition, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
	})

	It("does not duplicate galleries under parallel ingestion", func() {
		var rows []ingest.Row
		for i := range 40 {
			rows = append(rows, row(fmt.Sprintf("Gallery %d", i%4), fmt.Sprintf("Show %d", i%10), "2026-05-01", "2026-06-01"))
		}

		ing := ingest.NewIngester(store, artomologger.Nop(), ingest.WithWorkers(8))
		res := ing.Ingest(ctx, rows)
		Expect(res.AddedGalleries).To(Equal(4))
		Expect(res.AddedExhibitions + res.SkippedExhibitions).To(Equal(40))

		galleries, err := store.BulkFind(ctx, content.CategoryGallery, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(galleries).To(HaveLen(4))

		exhibitions, err := store.BulkFind(ctx, content.CategoryExhibition, records.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(exhibitions).To(HaveLen(res.AddedExhibitions))
	})
})

var _ = Describe("NewRow", func() {
	It("pads missing cells and trims whitespace", func() {
		r := ingest.NewRow([]string{" Area ", "Artist"}, []string{"  Ginza "})
		Expect(r.Get(ingest.ColArea)).To(Equal("Ginza"))
		Expect(r.Get(ingest.ColArtist)).To(Equal(""))
	})
})

var _ = Describe("ParseDate", func() {
	It("accepts dashed and slashed dates", func() {
		a, err := ingest.ParseDate(ingest.ColEndDate, "2026-06-01", time.UTC)
		Expect(err).NotTo(HaveOccurred())
		b, err := ingest.ParseDate(ingest.ColEndDate, "2026/06/01", time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(BeTemporally("==", b))
	})

	It("reports the offending column", func() {
		_, err := ingest.ParseDate(ingest.ColEndDate, "June", time.UTC)
		var malformed *content.MalformedInputError
		Expect(errors.As(err, &malformed)).To(BeTrue())
		Expect(malformed.Field).To(Equal(ingest.ColEndDate))
	})
})
