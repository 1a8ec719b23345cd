package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer EventSender needs
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventSender publishes each notification as an event on a Kafka topic,
// keyed by template so consumers of one kind see them in order
type EventSender struct {
	writer Writer
}

// event is the wire form of a notification on the topic
type event struct {
	Message
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEventSender creates an EventSender writing to topic on brokers
func NewEventSender(brokers []string, topic string) *EventSender {
	return &EventSender{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}}
}

// NewEventSenderWithWriter allows injecting a test writer
func NewEventSenderWithWriter(w Writer) *EventSender {
	return &EventSender{writer: w}
}

func (s *EventSender) Send(ctx context.Context, msg Message) error {
	value, err := json.Marshal(event{Message: msg, OccurredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.Template), Value: value}); err != nil {
		return fmt.Errorf("failed to write notification event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (s *EventSender) Close() error {
	return s.writer.Close()
}
