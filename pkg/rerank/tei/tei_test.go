package tei_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/rerank"
	"github.com/papercomputeco/artomo/pkg/rerank/tei"
)

type request struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type result struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

var _ = Describe("Scorer", func() {
	var (
		server *httptest.Server
		calls  atomic.Int32
	)

	BeforeEach(func() {
		calls.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Path != "/rerank" {
				http.NotFound(w, r)
				return
			}

			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			// Score is the text length, returned sorted by score like TEI does.
			out := make([]result, len(req.Texts))
			for i, t := range req.Texts {
				out[i] = result{Index: i, Score: float32(len(t))}
			}
			for i := 0; i < len(out); i++ {
				for j := i + 1; j < len(out); j++ {
					if out[j].Score > out[i].Score {
						out[i], out[j] = out[j], out[i]
					}
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns scores in input order", func() {
		s := tei.NewScorer(server.URL)
		scores, err := s.Score(context.Background(), []rerank.Pair{
			{Query: "q", Text: "ab"},
			{Query: "q", Text: "abcd"},
			{Query: "q", Text: "a"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(Equal([]float32{2, 4, 1}))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("issues one request per distinct query", func() {
		s := tei.NewScorer(server.URL)
		scores, err := s.Score(context.Background(), []rerank.Pair{
			{Query: "q1", Text: "abc"},
			{Query: "q2", Text: "a"},
			{Query: "q1", Text: "ab"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(Equal([]float32{3, 1, 2}))
		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("does not call the server for no pairs", func() {
		s := tei.NewScorer(server.URL)
		scores, err := s.Score(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(BeEmpty())
		Expect(calls.Load()).To(BeZero())
	})

	It("surfaces server errors", func() {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer bad.Close()

		_, err := tei.NewScorer(bad.URL).Score(context.Background(), []rerank.Pair{{Query: "q", Text: "t"}})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("503"))
	})
})
