package retrieval_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/content"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/preprocess"
	"github.com/papercomputeco/artomo/pkg/retrieval"
	testutils "github.com/papercomputeco/artomo/pkg/utils/test"
	"github.com/papercomputeco/artomo/pkg/vector"
	"github.com/papercomputeco/artomo/pkg/vector/inmemory"
)

var _ = Describe("Retriever", func() {
	var (
		ctx        context.Context
		now        time.Time
		embedder   *testutils.MockEmbedder
		dispatcher *preprocess.EmbeddingDispatcher
		store      *inmemory.Driver
		scorer     *testutils.MockScorer
	)

	seed := func(name, area string, end time.Time, vec []float32) *content.EmbeddedExhibition {
		ex := testutils.NewTestExhibition(name, content.NewBase().ID, end)
		ex.Area = area
		doc := &content.EmbeddedExhibition{
			CleanedExhibition: content.CleanedExhibition{Exhibition: *ex},
			Embedding:         vec,
		}
		payload, err := content.Payload(doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Upsert(ctx, content.ExhibitionsCollection, []vector.Document{{
			ID:        doc.ID.String(),
			Embedding: vec,
			Payload:   payload,
		}})).To(Succeed())
		return doc
	}

	newRetriever := func(r *retrieval.Reranker) *retrieval.Retriever {
		return retrieval.NewRetriever(dispatcher, store, r, artomologger.Nop(),
			retrieval.WithClock(func() time.Time { return now }))
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		embedder = testutils.NewMockEmbedder()
		dispatcher = preprocess.NewEmbeddingDispatcher(embedder, preprocess.DefaultEmbeddingHandlers(), artomologger.Nop())
		store = inmemory.NewDriver(artomologger.Nop())
		scorer = &testutils.MockScorer{}

		Expect(store.CreateFieldIndex(ctx, content.ExhibitionsCollection, retrieval.EndDateField, vector.FieldFloat)).To(Succeed())
		Expect(store.CreateFieldIndex(ctx, content.ExhibitionsCollection, "area", vector.FieldKeyword)).To(Succeed())
	})

	query := func(duration string) *content.Query {
		return content.NewStructuredQuery(map[string]string{
			content.FacetDuration: duration,
			content.FacetMood:     "calm",
		})
	}

	It("never returns exhibitions that have ended", func() {
		seed("Closed", "Ginza", now.Add(-time.Hour), []float32{0.1, 0.2, 0.3})
		open := seed("Open", "Ginza", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})

		out, err := newRetriever(retrieval.NewMockReranker()).Search(ctx, query("2 hours"), 10, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0].ID).To(Equal(open.ID))
		Expect(out[0].Name).To(Equal("Open"))
	})

	It("applies caller filters as exact matches", func() {
		seed("Ginza show", "Ginza", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})
		seed("Ueno show", "Ueno", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})

		out, err := newRetriever(retrieval.NewMockReranker()).Search(ctx, query("2 hours"), 10,
			map[string]any{"area": "Ueno"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0].Name).To(Equal("Ueno show"))
	})

	It("reports unindexed filter fields", func() {
		seed("Ginza show", "Ginza", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})

		_, err := newRetriever(retrieval.NewMockReranker()).Search(ctx, query("2 hours"), 10,
			map[string]any{"artist": "x"})
		Expect(err).To(MatchError(vector.ErrUnknownField))
	})

	It("short-circuits without calling the reranker when nothing matches", func() {
		seed("Closed", "Ginza", now.Add(-time.Hour), []float32{0.1, 0.2, 0.3})

		out, err := newRetriever(retrieval.NewReranker(scorer)).Search(ctx, query("not a number"), 10, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(scorer.Calls()).To(BeEmpty())
	})

	It("rejects a malformed duration when there are candidates", func() {
		seed("Open", "Ginza", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})

		_, err := newRetriever(retrieval.NewMockReranker()).Search(ctx, query("half day"), 10, nil)
		var malformed *content.MalformedInputError
		Expect(errors.As(err, &malformed)).To(BeTrue())
	})

	It("reranks down to the duration budget", func() {
		for _, name := range []string{"a", "b", "c", "d"} {
			seed(name, "Ginza", now.Add(24*time.Hour), []float32{0.1, 0.2, 0.3})
		}
		scorer.Scores = []float32{0.1, 0.4, 0.3, 0.2}

		out, err := newRetriever(retrieval.NewReranker(scorer)).Search(ctx, query("1 hours"), 8, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(scorer.Calls()).To(HaveLen(1))
		Expect(scorer.Calls()[0]).To(HaveLen(4))
	})

	It("requests max(1, k/2) candidates with the end date filter", func() {
		mock := testutils.NewMockVectorDriver()
		r := retrieval.NewRetriever(dispatcher, mock, retrieval.NewMockReranker(), artomologger.Nop(),
			retrieval.WithClock(func() time.Time { return now }))

		_, err := r.Search(ctx, query("2 hours"), 1, map[string]any{"level": 3.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(mock.Searches).To(HaveLen(1))

		call := mock.Searches[0]
		Expect(call.Collection).To(Equal(content.ExhibitionsCollection))
		Expect(call.Limit).To(Equal(1))
		Expect(call.Filter.Must).To(HaveLen(2))
		Expect(call.Filter.Must[0].Field).To(Equal(retrieval.EndDateField))
		Expect(*call.Filter.Must[0].Gte).To(Equal(float64(now.Unix())))
		Expect(*call.Filter.Must[1].Match).To(Equal("3"))
	})

	It("wraps embedding failures", func() {
		q := content.NewTextQuery("fail me")
		embedder.FailOn = "fail me"

		_, err := newRetriever(retrieval.NewMockReranker()).Search(ctx, q, 10, nil)
		Expect(err).To(MatchError(retrieval.ErrQueryEmbedding))
	})

	It("wraps vector store failures", func() {
		mock := testutils.NewMockVectorDriver()
		mock.SearchErr = vector.ErrConnection
		r := retrieval.NewRetriever(dispatcher, mock, retrieval.NewMockReranker(), artomologger.Nop())

		_, err := r.Search(ctx, query("2 hours"), 10, nil)
		Expect(err).To(MatchError(retrieval.ErrVectorStore))
		Expect(err).To(MatchError(vector.ErrConnection))
	})
})
