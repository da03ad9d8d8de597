package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/papercomputeco/artomo/pkg/eventstream"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads report events as a member of a consumer group.
type Consumer struct {
	reader messageReader
	logger *slog.Logger
}

func NewConsumer(c Config, logger *slog.Logger) (*Consumer, error) {
	c, err := c.withDefaults()
	if err != nil {
		return nil, err
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.Brokers,
		Topic:    c.Topic,
		GroupID:  c.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(r, logger), nil
}

func newConsumer(r messageReader, logger *slog.Logger) *Consumer {
	return &Consumer{reader: r, logger: logger}
}

// Run hands every event to handle until ctx is done. Each message is
// committed after handling, whether or not it succeeded; undecodable
// messages are committed and skipped.
func (c *Consumer) Run(ctx context.Context, handle eventstream.Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		logger := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

		var event eventstream.ReportRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("skipping undecodable event", "error", err)
		} else if event.EventType != eventstream.EventTypeReportRequested {
			logger.Warn("skipping unknown event type", "event_type", event.EventType)
		} else if err := handle(ctx, &event); err != nil {
			logger.Error("handling report event", "exhibition_id", event.ExhibitionID, "error", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("committing offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
