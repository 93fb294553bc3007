package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// DefaultQueueSize is the Async queue capacity used when none is given.
const DefaultQueueSize = 8

type message struct {
	title string
	body  string
}

// Async delivers notifications on a single background goroutine so callers
// never block on a slow or interactive backend. Messages are delivered in
// order; when the queue is full new messages are dropped.
type Async struct {
	next    Notifier
	onError func(error)

	queue chan message
	ctx   context.Context
	stop  context.CancelFunc

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewAsync starts the delivery goroutine. onError, if non-nil, receives every
// failed delivery and every dropped message; otherwise they are logged.
// Failures after Close are not reported.
func NewAsync(next Notifier, queueSize int, onError func(error)) *Async {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		next:    next,
		onError: onError,
		queue:   make(chan message, queueSize),
		ctx:     ctx,
		stop:    cancel,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify enqueues the notification and returns immediately.
// It only fails if the queue is closed. A full queue drops the message and
// reports ErrQueueFull.
func (a *Async) Notify(_ context.Context, title, body string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errClosed
	}
	var dropped bool
	select {
	case a.queue <- message{title: title, body: body}:
	default:
		dropped = true
	}
	a.mu.Unlock()

	if dropped {
		a.report(fmt.Errorf("%w (%d), dropping %q", ErrQueueFull, cap(a.queue), body))
	}
	return nil
}

// Close stops accepting notifications and cancels the delivery context, then
// waits for the worker to exit. Messages still queued are handed to the
// backend with the cancelled context and abandoned; their failures are not
// reported.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.stop()
	<-a.done
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for msg := range a.queue {
		err := a.next.Notify(a.ctx, msg.title, msg.body)
		if err != nil && a.ctx.Err() == nil {
			a.report(err)
		}
	}
}

func (a *Async) report(err error) {
	if a.onError != nil {
		a.onError(err)
		return
	}
	log.Printf("notify: %v", err)
}
