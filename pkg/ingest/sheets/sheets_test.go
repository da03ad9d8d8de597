package sheets

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/ingest"
)

var _ = Describe("SpreadsheetID", func() {
	DescribeTable("extracts the document id",
		func(link, want string) {
			id, err := SpreadsheetID(link)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(want))
		},
		Entry("edit URL", "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", "1AbC-d_9"),
		Entry("bare id", "1AbC-d_9", "1AbC-d_9"),
	)

	It("rejects links without an id", func() {
		_, err := SpreadsheetID("https://example.com/some page")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("toRows", func() {
	It("uses the first line as headers and pads short lines", func() {
		rows := toRows([][]any{
			{ingest.ColGalleryNameEnglish, ingest.ColExhibitionName, ingest.ColLatitude},
			{"SCAI", "Echoes", 35.6},
			{"Ota"},
		})
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Get(ingest.ColLatitude)).To(Equal("35.6"))
		Expect(rows[1].Get(ingest.ColExhibitionName)).To(Equal(""))
	})

	It("returns no rows for an empty sheet", func() {
		Expect(toRows(nil)).To(BeEmpty())
	})
})
