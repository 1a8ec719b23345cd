package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitClient holds one AMQP connection and channel
type RabbitClient struct {
	conn *amqp.Connection
	chn  *amqp.Channel
}

// NewRabbitClient dials url and opens a channel
func NewRabbitClient(url string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	return &RabbitClient{conn: conn, chn: chn}, nil
}

// Close closes the channel then the connection
func (r *RabbitClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}

// DeclareQueue declares a durable queue
func (r *RabbitClient) DeclareQueue(queue string) error {
	_, err := r.chn.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return nil
}

// Publish sends body to queue through the default exchange as a persistent message
func (r *RabbitClient) Publish(ctx context.Context, queue string, body []byte) error {
	return r.chn.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume starts a manual-ack consumer on queue
func (r *RabbitClient) Consume(queue string) (<-chan amqp.Delivery, error) {
	msgs, err := r.chn.Consume(
		queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}
	return msgs, nil
}

// Publisher is the subset of RabbitClient QueueSender needs
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// QueueSender hands messages to a RabbitMQ queue for delivery by a Worker
type QueueSender struct {
	Publisher Publisher
	Queue     string
}

func (s QueueSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := s.Publisher.Publish(ctx, s.Queue, body); err != nil {
		return fmt.Errorf("failed to publish notification to %s: %w", s.Queue, err)
	}
	return nil
}
