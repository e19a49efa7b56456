package mail

import (
	"github.com/rs/zerolog"
)

// Dispatcher decouples user-facing writes from transport latency: a
// status update enqueues its notification and returns immediately,
// while a single worker goroutine drains the queue. Delivery is
// fire-and-forget; a full queue drops the message with a log line.
type Dispatcher struct {
	logger zerolog.Logger
	sender Sender
	queue  chan Message
	done   chan struct{}
}

func NewDispatcher(logger zerolog.Logger, sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		logger: logger,
		sender: sender,
		queue:  make(chan Message, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. It returns immediately.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for msg := range d.queue {
			delivered := d.sender.Send(msg)
			if !delivered {
				d.logger.Error().
					Str("to", msg.To).
					Str("subject", msg.Subject).
					Msg("notification not delivered")
			}
		}
	}()
	d.logger.Info().
		Int("queue_size", cap(d.queue)).
		Msg("started mail dispatcher")
}

// Deliver enqueues a message without blocking. When the queue is full
// the message is dropped; there is no retry and no delivery guarantee.
func (d *Dispatcher) Deliver(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.logger.Error().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("mail queue full, dropping notification")
	}
}

// Stop closes the queue and waits for the worker to drain it. Deliver
// must not be called after Stop.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
	d.logger.Info().Msg("stopped mail dispatcher")
}
