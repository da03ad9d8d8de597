package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"

	"github.com/papercomputeco/artomo/pkg/eventstream"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves queued messages and then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func (r *fakeReader) Close() error { return nil }

var _ = Describe("Config", func() {
	It("requires brokers", func() {
		_, err := NewPublisher(Config{}, artomologger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("fills in the default topic and group", func() {
		c, err := Config{Brokers: []string{"localhost:9092"}}.withDefaults()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Topic).To(Equal(DefaultTopic))
		Expect(c.GroupID).To(Equal(DefaultGroupID))
	})
})

var _ = Describe("Publisher", func() {
	It("keys messages by exhibition id", func() {
		w := &fakeWriter{}
		p := newPublisher(w, DefaultTopic, artomologger.Nop())
		event := eventstream.NewReportRequestedEvent(uuid.New(), map[string]string{"mood": "calm"}, time.Now())

		Expect(p.PublishReportRequest(context.Background(), event)).To(Succeed())
		Expect(w.msgs).To(HaveLen(1))
		Expect(string(w.msgs[0].Key)).To(Equal(event.ExhibitionID.String()))

		var decoded eventstream.ReportRequestedEvent
		Expect(json.Unmarshal(w.msgs[0].Value, &decoded)).To(Succeed())
		Expect(decoded.Query).To(HaveKeyWithValue("mood", "calm"))
	})

	It("rejects nil events", func() {
		p := newPublisher(&fakeWriter{}, DefaultTopic, artomologger.Nop())
		Expect(p.PublishReportRequest(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("wraps broker failures", func() {
		p := newPublisher(&fakeWriter{err: errors.New("leader not available")}, DefaultTopic, artomologger.Nop())
		err := p.PublishReportRequest(context.Background(), eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now()))
		Expect(err).To(MatchError(eventstream.ErrPublish))
	})
})

var _ = Describe("Consumer", func() {
	message := func(offset int64, event any) kafka.Message {
		value, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())
		return kafka.Message{Offset: offset, Value: value}
	}

	It("handles events and commits every message", func() {
		good := eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now())
		failing := eventstream.NewReportRequestedEvent(uuid.New(), nil, time.Now())
		other := map[string]any{"event_type": "something.else"}

		r := &fakeReader{queue: []kafka.Message{
			message(1, good),
			{Offset: 2, Value: []byte("not json")},
			message(3, other),
			message(4, failing),
		}}
		c := newConsumer(r, artomologger.Nop())

		var (
			mu      sync.Mutex
			handled []uuid.UUID
		)
		handler := func(_ context.Context, e *eventstream.ReportRequestedEvent) error {
			mu.Lock()
			defer mu.Unlock()
			handled = append(handled, e.ExhibitionID)
			if e.ExhibitionID == failing.ExhibitionID {
				return errors.New("model unavailable")
			}
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- c.Run(ctx, handler)
		}()

		Eventually(r.Committed).Should(Equal([]int64{1, 2, 3, 4}))
		cancel()
		Eventually(done).Should(Receive(BeNil()))

		mu.Lock()
		defer mu.Unlock()
		Expect(handled).To(Equal([]uuid.UUID{good.ExhibitionID, failing.ExhibitionID}))
	})
})
