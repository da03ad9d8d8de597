package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/embeddings"
	"github.com/papercomputeco/artomo/pkg/embeddings/ollama"
)

var _ = Describe("Embedder", func() {
	var (
		server   *httptest.Server
		received map[string]any
		reply    [][]float32
		status   int
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		reply = [][]float32{{1, 0}, {0, 1}}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/api/embed"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": reply})
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newEmbedder := func() *ollama.Embedder {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "all-minilm"})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("sends the whole batch in one request and keeps order", func() {
		vecs, err := newEmbedder().EmbedBatch(context.Background(), []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(Equal([][]float32{{1, 0}, {0, 1}}))
		Expect(received["model"]).To(Equal("all-minilm"))
		Expect(received["input"]).To(Equal([]any{"a", "b"}))
	})

	It("rejects a response with the wrong vector count", func() {
		reply = [][]float32{{1, 0}}
		_, err := newEmbedder().EmbedBatch(context.Background(), []string{"a", "b"})
		Expect(err).To(MatchError(embeddings.ErrEmbeddingCount))
	})

	It("wraps server errors", func() {
		status = http.StatusInternalServerError
		_, err := newEmbedder().EmbedBatch(context.Background(), []string{"a", "b"})
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("reports defaults for unset model info", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Info()).To(Equal(embeddings.ModelInfo{
			ModelID:        ollama.DefaultEmbeddingModel,
			Dimensions:     ollama.DefaultDimensions,
			MaxInputLength: ollama.DefaultMaxInputLength,
		}))
	})

	It("skips the request for an empty batch", func() {
		vecs, err := newEmbedder().EmbedBatch(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(BeEmpty())
		Expect(received).To(BeNil())
	})
})
