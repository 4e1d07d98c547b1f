package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads booking events until the context is cancelled or the handler
// fails. Messages that do not decode as a BookingEvent are logged and skipped
// so one malformed payload cannot wedge the consumer group.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeBookingEvent(msg.Value)
		if err != nil {
			log.Printf("WARNING: skipping message at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeBookingEvent(value []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("failed to decode booking event: %w", err)
	}
	return event, nil
}
