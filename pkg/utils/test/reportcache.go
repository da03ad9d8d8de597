package testutils

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/reportcache"
)

// ReportCacheBehaviors registers the specs every reportcache.Cache must pass.
func ReportCacheBehaviors(newCache func() reportcache.Cache) {
	var (
		ctx   context.Context
		cache reportcache.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()
		cache = newCache()
	})

	AfterEach(func() {
		if cache != nil {
			Expect(cache.Close()).To(Succeed())
		}
	})

	It("misses unknown ids", func() {
		_, err := cache.Get(ctx, uuid.New())
		Expect(err).To(MatchError(reportcache.ErrMiss))
	})

	It("returns the last report set", func() {
		id := uuid.New()
		Expect(cache.Set(ctx, id, "first")).To(Succeed())
		Expect(cache.Set(ctx, id, "second")).To(Succeed())

		report, err := cache.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(report).To(Equal("second"))
	})

	It("deletes reports", func() {
		id := uuid.New()
		Expect(cache.Set(ctx, id, "report")).To(Succeed())
		Expect(cache.Delete(ctx, id)).To(Succeed())
		Expect(cache.Delete(ctx, id)).To(Succeed())

		_, err := cache.Get(ctx, id)
		Expect(err).To(MatchError(reportcache.ErrMiss))
	})
}

