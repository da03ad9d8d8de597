// Package kafka publishes and consumes report events on a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

const (
	// DefaultTopic is the topic report events are written to.
	DefaultTopic = "artomo.reports"

	// DefaultGroupID is the consumer group report workers join.
	DefaultGroupID = "artomo-report-workers"
)

// Config holds the broker settings shared by publishers and consumers.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

func (c Config) withDefaults() (Config, error) {
	if len(c.Brokers) == 0 {
		return c, errors.New("at least one kafka broker is required")
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.GroupID == "" {
		c.GroupID = DefaultGroupID
	}
	return c, nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes report events keyed by exhibition id, so events for one
// exhibition land on the same partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

func NewPublisher(c Config, logger *slog.Logger) (*Publisher, error) {
	c, err := c.withDefaults()
	if err != nil {
		return nil, err
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, c.Topic, logger), nil
}

func newPublisher(w messageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger}
}

func (p *Publisher) PublishReportRequest(ctx context.Context, event *eventstream.ReportRequestedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ExhibitionID.String()),
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w to %s: %w", eventstream.ErrPublish, p.topic, err)
	}

	p.logger.Debug("report event published", "topic", p.topic, "exhibition_id", event.ExhibitionID, "event_id", event.EventID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
