package eventstream_test

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

var _ = Describe("ReportRequestedEvent", func() {
	It("marshals with the expected top-level keys", func() {
		now := time.Unix(1735689600, 0)
		id := uuid.New()
		event := eventstream.NewReportRequestedEvent(id, map[string]string{"mood": "calm"}, now)

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKeyWithValue("schema_version", BeNumerically("==", eventstream.SchemaVersionV1)))
		Expect(got).To(HaveKeyWithValue("event_type", eventstream.EventTypeReportRequested))
		Expect(got).To(HaveKeyWithValue("exhibition_id", id.String()))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("query"))
	})

	It("assigns unique event ids", func() {
		a := eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now())
		b := eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now())
		Expect(a.EventID).NotTo(Equal(b.EventID))
		Expect(a.EmittedAt.Location()).To(Equal(time.UTC))
	})
})
