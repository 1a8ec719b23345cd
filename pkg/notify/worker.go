package notify

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Worker delivers queued notifications through Sender
type Worker struct {
	Sender Sender
	Logger *zap.Logger
}

// Run processes deliveries until ctx is cancelled or the channel closes.
// A message that fails once is requeued; a redelivered message that fails
// again is rejected so a broken recipient cannot loop forever.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("Notification worker stopping")
			return
		case d, ok := <-deliveries:
			if !ok {
				w.Logger.Info("Delivery channel closed")
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		w.Logger.Error("Discarding malformed notification", zap.Error(err))
		if err := d.Reject(false); err != nil {
			w.Logger.Error("Failed to reject message", zap.Error(err))
		}
		return
	}

	if err := w.Sender.Send(ctx, msg); err != nil {
		w.Logger.Error("Failed to deliver queued notification",
			zap.String("template", string(msg.Template)),
			zap.String("recipient", msg.Recipient),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err))
		if err := d.Nack(false, !d.Redelivered); err != nil {
			w.Logger.Error("Failed to nack message", zap.Error(err))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		w.Logger.Error("Failed to ack message", zap.Error(err))
		return
	}
	w.Logger.Debug("Delivered queued notification",
		zap.String("template", string(msg.Template)),
		zap.String("recipient", msg.Recipient))
}
