package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher delivers messages asynchronously through a bounded queue drained
// by a fixed set of workers. Each message goes to every sender; a failing
// sender is logged and does not stop the others.
type Dispatcher struct {
	queue   chan Message
	senders []Sender
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines draining a queue of queueSize messages
func NewDispatcher(logger *zap.Logger, queueSize, workers int, senders ...Sender) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	d := &Dispatcher{
		queue:   make(chan Message, queueSize),
		senders: senders,
		logger:  logger,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

// Notify enqueues msg. When the queue is full or the dispatcher is closed the
// message is dropped with a warning.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Dispatcher closed, dropping notification",
			zap.String("template", string(msg.Template)),
			zap.String("recipient", msg.Recipient))
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("Notification queue full, dropping notification",
			zap.String("template", string(msg.Template)),
			zap.String("recipient", msg.Recipient))
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	// delivery outlives the request that produced the message
	ctx := context.Background()
	for msg := range d.queue {
		for _, sender := range d.senders {
			if err := sender.Send(ctx, msg); err != nil {
				d.logger.Error("Failed to deliver notification",
					zap.String("template", string(msg.Template)),
					zap.String("recipient", msg.Recipient),
					zap.Error(err))
			}
		}
	}
}
