// Package notify provides the desktop notification capability used by the scheduler.
// Backends are selected per OS at build time; the scheduler only sees Notifier.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported indicates the host has no usable notification backend.
var ErrUnsupported = errors.New("notify: not supported on this platform")

// ErrQueueFull is reported to the Async error callback for a dropped message.
var ErrQueueFull = errors.New("notify: queue full")

var errClosed = errors.New("notify: closed")

// Notifier renders a user-visible alert.
type Notifier interface {
	// Notify shows a notification. It may block (for example while waiting
	// for dismissal) and may fail; failures must not stop scheduling.
	Notify(ctx context.Context, title, body string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, title, body string) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}

// Nop discards every notification.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string, string) error { return nil }

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

// Notify delivers to each notifier in order.
func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Options configures desktop backends.
type Options struct {
	// WaitForDismissal blocks Notify until the user closes the notification,
	// where the backend supports it.
	WaitForDismissal bool
	// DismissTimeout bounds WaitForDismissal. Zero means wait until ctx ends.
	DismissTimeout time.Duration
	// OnDismissed, if set, is called when the user closes a notification
	// that Notify was waiting on.
	OnDismissed func()
}
