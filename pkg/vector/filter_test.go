package vector_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/vector"
)

var _ = Describe("Filter", func() {
	indexes := map[string]vector.FieldType{
		"area":   vector.FieldKeyword,
		"end_ts": vector.FieldFloat,
	}

	It("does not mutate the receiver on And", func() {
		base := vector.Filter{}.And(vector.MatchKeyword("area", "Ginza"))
		extended := base.And(vector.AtLeast("end_ts", 1))
		Expect(base.Must).To(HaveLen(1))
		Expect(extended.Must).To(HaveLen(2))
	})

	DescribeTable("Validate",
		func(c vector.Condition, ok bool) {
			err := vector.Filter{Must: []vector.Condition{c}}.Validate(indexes)
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(vector.ErrUnknownField))
			}
		},
		Entry("indexed keyword", vector.MatchKeyword("area", "Ginza"), true),
		Entry("indexed float range", vector.AtLeast("end_ts", 1), true),
		Entry("keyword match on a float field", vector.MatchKeyword("end_ts", "1"), true),
		Entry("unknown field", vector.MatchKeyword("mood", "calm"), false),
		Entry("range on keyword field", vector.AtLeast("area", 1), false),
	)

	DescribeTable("Matches",
		func(payload map[string]any, want bool) {
			f := vector.Filter{}.And(vector.MatchKeyword("area", "Ginza"), vector.AtLeast("end_ts", 10))
			Expect(f.Matches(payload)).To(Equal(want))
		},
		Entry("both satisfied", map[string]any{"area": "Ginza", "end_ts": 10.0}, true),
		Entry("below range", map[string]any{"area": "Ginza", "end_ts": 9.0}, false),
		Entry("wrong keyword", map[string]any{"area": "Ueno", "end_ts": 11.0}, false),
		Entry("missing field", map[string]any{"area": "Ginza"}, false),
	)

	It("stringifies numbers without exponent noise", func() {
		Expect(vector.Stringify(3.0)).To(Equal("3"))
		Expect(vector.Stringify(2.5)).To(Equal("2.5"))
		Expect(vector.Stringify(true)).To(Equal("true"))
	})
})

var _ = Describe("CosineSimilarity", func() {
	It("is 1 for parallel vectors", func() {
		Expect(vector.CosineSimilarity([]float32{1, 2}, []float32{2, 4})).To(BeNumerically("~", 1, 1e-6))
	})

	It("is 0 for orthogonal vectors", func() {
		Expect(vector.CosineSimilarity([]float32{1, 0}, []float32{0, 1})).To(BeNumerically("~", 0, 1e-6))
	})
})
