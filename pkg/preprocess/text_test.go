package preprocess_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/preprocess"
)

var _ = Describe("CleanText", func() {
	DescribeTable("normalizes free text",
		func(in, want string) {
			Expect(preprocess.CleanText(in)).To(Equal(want))
		},
		Entry("strips punctuation outside the allowed set", "Hello (world) & friends!", "Hello world friends!"),
		Entry("keeps sentence punctuation", "Quiet, calm. Really? Yes!", "Quiet, calm. Really? Yes!"),
		Entry("collapses whitespace", "  many\t\tspaces\n\nhere  ", "many spaces here"),
		Entry("keeps Japanese text", "「光と影」展　東京", "光と影 展 東京"),
		Entry("keeps digits and underscores", "room_3 ~ 2F", "room_3 2F"),
		Entry("empty stays empty", "", ""),
		Entry("punctuation only becomes empty", "###", ""),
	)

	It("is idempotent", func() {
		once := preprocess.CleanText("A *bold*   claim; really?")
		Expect(preprocess.CleanText(once)).To(Equal(once))
	})
})
