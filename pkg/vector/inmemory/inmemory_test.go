package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/vector"
	"github.com/papercomputeco/artomo/pkg/vector/inmemory"
)

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver(artomologger.Nop())

		Expect(driver.Upsert(ctx, "c", []vector.Document{
			{ID: "b", Embedding: []float32{1, 0}, Payload: map[string]any{"area": "Ginza", "end_ts": 10.0}},
			{ID: "a", Embedding: []float32{1, 0}, Payload: map[string]any{"area": "Ueno", "end_ts": 10.0}},
			{ID: "c", Embedding: []float32{0, 1}, Payload: map[string]any{"area": "Ginza", "end_ts": 1.0}},
		})).To(Succeed())
		Expect(driver.CreateFieldIndex(ctx, "c", "area", vector.FieldKeyword)).To(Succeed())
		Expect(driver.CreateFieldIndex(ctx, "c", "end_ts", vector.FieldFloat)).To(Succeed())
	})

	It("orders by score then ID", func() {
		results, err := driver.Search(ctx, "c", []float32{1, 0}, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())
		ids := []string{results[0].ID, results[1].ID, results[2].ID}
		Expect(ids).To(Equal([]string{"a", "b", "c"}))
	})

	It("filters and limits", func() {
		results, err := driver.Search(ctx, "c", []float32{1, 0}, 1,
			vector.Filter{}.And(vector.MatchKeyword("area", "Ginza")))
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].ID).To(Equal("b"))
	})

	It("rejects unindexed fields", func() {
		_, err := driver.Search(ctx, "c", []float32{1, 0}, 1,
			vector.Filter{}.And(vector.MatchKeyword("mood", "calm")))
		Expect(err).To(MatchError(vector.ErrUnknownField))
	})

	It("rejects range conditions on keyword fields", func() {
		_, err := driver.Search(ctx, "c", []float32{1, 0}, 1,
			vector.Filter{}.And(vector.AtLeast("area", 1)))
		Expect(err).To(MatchError(vector.ErrUnknownField))
	})

	It("replaces documents with the same ID", func() {
		Expect(driver.Upsert(ctx, "c", []vector.Document{
			{ID: "a", Embedding: []float32{0, 1}},
		})).To(Succeed())
		Expect(driver.Count("c")).To(Equal(3))
	})

	It("deletes collections", func() {
		Expect(driver.DeleteCollection(ctx, "c")).To(Succeed())
		Expect(driver.Count("c")).To(Equal(0))
		Expect(driver.DeleteCollection(ctx, "c")).To(MatchError(vector.ErrNotFound))

		_, err := driver.Search(ctx, "c", []float32{1, 0}, 1, vector.Filter{})
		Expect(err).To(MatchError(vector.ErrNotFound))
	})
})
