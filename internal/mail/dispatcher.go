// Outbound mail is never allowed to stall or fail an auth request. The
// dispatcher decouples delivery behind a bounded queue with a fixed
// worker pool; a full queue drops the message and counts it instead of
// blocking the caller.
package mail

import (
	"context"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Enqueuer interface {
	Enqueue(msg Message)
}

type deliveryMetrics interface {
	RecordMailSent()
	RecordMailFailed()
	RecordMailDropped()
}

type Dispatcher struct {
	sender  Sender
	queue   chan Message
	metrics deliveryMetrics
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

func NewDispatcher(sender Sender, queueSize, workers int, sendTimeout time.Duration, m deliveryMetrics) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 2
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		metrics: m,
		timeout: sendTimeout,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue submits a message for delivery and returns immediately.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.metrics.RecordMailDropped()
		logutil.GetLogger(context.Background()).Warn("mail queue full, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sender.Send(ctx, msg.To, msg.Subject, msg.HTMLBody)
		cancel()
		if err != nil {
			d.metrics.RecordMailFailed()
			logutil.GetLogger(ctx).Error("mail delivery failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			continue
		}
		d.metrics.RecordMailSent()
		logutil.GetLogger(ctx).Info("mail delivered",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Close stops accepting new messages and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
