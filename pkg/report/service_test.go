package report_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/eventstream"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	recordsmem "github.com/papercomputeco/artomo/pkg/records/inmemory"
	"github.com/papercomputeco/artomo/pkg/report"
	"github.com/papercomputeco/artomo/pkg/reportcache"
	cachemem "github.com/papercomputeco/artomo/pkg/reportcache/inmemory"
	testutils "github.com/papercomputeco/artomo/pkg/utils/test"
)

// queueSource hands queued events to the handler, then returns.
type queueSource []*eventstream.ReportRequestedEvent

func (q queueSource) Run(ctx context.Context, handle eventstream.Handler) error {
	for _, e := range q {
		if err := handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

var _ = Describe("Service", func() {
	var (
		ctx        context.Context
		model      *testutils.MockLanguageModel
		cache      *cachemem.Cache
		service    *report.Service
		exhibition uuid.UUID
	)

	BeforeEach(func() {
		ctx = context.Background()
		store := recordsmem.NewDriver()
		gallery := testutils.NewTestGallery("SCAI")
		Expect(store.Insert(ctx, gallery)).To(Succeed())
		e := testutils.NewTestExhibition("Echoes", gallery.ID, time.Now().AddDate(0, 1, 0))
		Expect(store.Insert(ctx, e)).To(Succeed())
		exhibition = e.ID

		model = testutils.NewMockLanguageModel(`{"report": "generated"}`)
		cache = cachemem.NewCache(0)
		gen := report.NewGenerator(model, report.Params{}, artomologger.Nop())
		service = report.NewService(store, cache, gen, artomologger.Nop())
	})

	It("generates and caches on a miss", func() {
		out, err := service.Exhibition(ctx, exhibition, nil, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("generated"))
		Expect(cache.Get(ctx, exhibition)).To(Equal("generated"))
	})

	It("serves cached reports without calling the model", func() {
		Expect(cache.Set(ctx, exhibition, "cached")).To(Succeed())

		out, err := service.Exhibition(ctx, exhibition, nil, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("cached"))
		Expect(model.Prompts()).To(BeEmpty())
	})

	It("regenerates on refresh", func() {
		Expect(cache.Set(ctx, exhibition, "stale")).To(Succeed())

		out, err := service.Exhibition(ctx, exhibition, map[string]string{"mood": "calm"}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("generated"))
		Expect(cache.Get(ctx, exhibition)).To(Equal("generated"))
	})

	It("reports unknown exhibitions", func() {
		_, err := service.Exhibition(ctx, uuid.New(), nil, false)
		Expect(err).To(MatchError(report.ErrExhibitionNotFound))
	})

	It("does not cache failed generations", func() {
		model.Answer = "not json"

		_, err := service.Exhibition(ctx, exhibition, nil, false)
		Expect(err).To(MatchError(report.ErrMalformedReport))
		_, err = cache.Get(ctx, exhibition)
		Expect(err).To(MatchError(reportcache.ErrMiss))
	})

	Describe("Worker", func() {
		It("warms the cache from events and drops unknown exhibitions", func() {
			worker := report.NewWorker(service, artomologger.Nop())
			src := queueSource{
				eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now()),
				eventstream.NewReportRequestedEvent(exhibition, map[string]string{"level": "expert"}, time.Now()),
			}

			Expect(worker.Run(ctx, src)).To(Succeed())
			Expect(cache.Get(ctx, exhibition)).To(Equal("generated"))
			Expect(model.Prompts()).To(HaveLen(1))
			Expect(model.Prompts()[0]).To(ContainSubstring("Art Knowledge Level: expert"))
		})

		It("rejects nil events", func() {
			worker := report.NewWorker(service, artomologger.Nop())
			Expect(worker.Handle(ctx, nil)).To(MatchError(eventstream.ErrNilEvent))
		})
	})
})
