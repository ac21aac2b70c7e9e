package bus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/retry"
	"github.com/segmentio/kafka-go"
)

// Processor handles one raw envelope per invocation.
type Processor interface {
	Process(ctx context.Context, raw []byte) (*domain.Notification, error)
}

// Consumer reads event envelopes off the broker and feeds them to the
// pipeline. Delivery is at-least-once: a message's offset is committed only
// after its durable write succeeded, or after a validation failure
// (redelivering a malformed envelope cannot fix it). A durable-write failure
// holds the consumer on the same message, so the group offset never advances
// past an event that was not stored.
type Consumer struct {
	reader  *kafka.Reader
	handler Processor
	backoff retry.Policy
}

func NewConsumer(brokers []string, topic, groupID string, handler Processor) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // synchronous commits
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{reader: reader, handler: handler, backoff: retry.DefaultPolicy()}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("bus consumer started",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID,
	)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			// shutdown mid-message; the uncommitted offset is redelivered
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			slog.Error("offset commit failed", "partition", msg.Partition, "offset", msg.Offset, "err", err)
		}
	}
}

// handleMessage runs the pipeline for one message and returns once its offset
// may be committed. Committing offset N marks every earlier offset on the
// partition as consumed, so fetching the next message before this one is
// stored would lose it the moment any later message commits. Durable-write
// failures therefore reprocess the same message with backoff until the write
// lands or ctx is cancelled.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	for attempt := 1; ; attempt++ {
		_, err := c.handler.Process(ctx, msg.Value)
		if shouldCommit(err) {
			if err != nil {
				// the envelope is archived; redelivery cannot help
				slog.Warn("dropping invalid envelope",
					"partition", msg.Partition, "offset", msg.Offset, "err", err)
			}
			return nil
		}

		delay := retry.Delay(c.backoff, min(attempt, 10))
		slog.Error("processing failed, reprocessing message",
			"partition", msg.Partition, "offset", msg.Offset,
			"attempt", attempt, "backoff", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// shouldCommit decides whether the offset for a processed message may be
// committed. Validation failures commit (redelivery cannot fix a malformed
// envelope); durable-write failures do not.
func shouldCommit(err error) bool {
	return err == nil || errors.Is(err, domain.ErrValidation)
}

// Close gracefully closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
