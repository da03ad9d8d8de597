package qdrant

import (
	"github.com/qdrant/go-client/qdrant"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/vector"
)

var _ = Describe("parseTarget", func() {
	It("defaults to localhost", func() {
		c, err := parseTarget("")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Host).To(Equal("localhost"))
		Expect(c.Port).To(Equal(DefaultPort))
	})

	It("reads host, port and TLS from the URL", func() {
		c, err := parseTarget("https://qdrant.example.com:7334")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Host).To(Equal("qdrant.example.com"))
		Expect(c.Port).To(Equal(7334))
		Expect(c.UseTLS).To(BeTrue())
	})

	It("rejects targets without a host", func() {
		_, err := parseTarget("localhost")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("toQdrantFilter", func() {
	It("returns nil for an empty filter", func() {
		Expect(toQdrantFilter(vector.Filter{})).To(BeNil())
	})

	It("builds must conditions", func() {
		f := vector.Filter{}.And(
			vector.AtLeast("exhibition_end_date_ts", 100),
			vector.MatchKeyword("area", "Ginza"),
		)
		q := toQdrantFilter(f)
		Expect(q.GetMust()).To(HaveLen(2))
		Expect(q.GetMust()[0].GetField().GetKey()).To(Equal("exhibition_end_date_ts"))
		Expect(q.GetMust()[0].GetField().GetRange().GetGte()).To(Equal(100.0))
		Expect(q.GetMust()[1].GetField().GetMatch().GetKeyword()).To(Equal("Ginza"))
	})
})

var _ = Describe("fromValueMap", func() {
	It("converts nested payload values", func() {
		in := qdrant.NewValueMap(map[string]any{
			"name":     "Afterimages",
			"end":      1.5,
			"metadata": map[string]any{"embedding_size": 384},
			"tags":     []any{"a", "b"},
		})
		out := fromValueMap(in)
		Expect(out["name"]).To(Equal("Afterimages"))
		Expect(out["end"]).To(Equal(1.5))
		Expect(out["metadata"]).To(Equal(map[string]any{"embedding_size": float64(384)}))
		Expect(out["tags"]).To(Equal([]any{"a", "b"}))
	})
})
