// Package shutdown turns an external interrupt into a process-wide stop flag.
//
// The main goroutine blocks on Done and exits once it closes. It does not wait
// for the scheduler goroutine to reach a safe point; an interval in progress
// is simply abandoned when the process ends.
package shutdown

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// ErrAlreadyInstalled is returned when Install is called twice.
var ErrAlreadyInstalled = errors.New("shutdown: interrupt handler already installed")

// Controller owns the running flag.
type Controller struct {
	running   atomic.Bool
	installed atomic.Bool
	done      chan struct{}
	stopOnce  sync.Once

	mu    sync.Mutex
	sigCh chan os.Signal
}

// New creates a Controller in the running state.
func New() *Controller {
	c := &Controller{done: make(chan struct{})}
	c.running.Store(true)
	return c
}

// Install registers for the platform's interrupt signals. On the first signal
// the controller stops and onInterrupt (if non-nil) runs. onInterrupt must
// not block.
func (c *Controller) Install(onInterrupt func()) error {
	if !c.installed.CompareAndSwap(false, true) {
		return ErrAlreadyInstalled
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, interruptSignals...)

	c.mu.Lock()
	c.sigCh = ch
	c.mu.Unlock()

	go c.watch(ch, onInterrupt)
	return nil
}

func (c *Controller) watch(ch <-chan os.Signal, onInterrupt func()) {
	for s := range ch {
		log.Printf("received %v, shutting down", s)
		c.Stop()
		if onInterrupt != nil {
			onInterrupt()
		}
	}
}

// Uninstall stops signal delivery to the controller.
func (c *Controller) Uninstall() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sigCh == nil {
		return
	}
	signal.Stop(c.sigCh)
	close(c.sigCh)
	c.sigCh = nil
}

// Stop clears the running flag and releases waiters. Safe to call repeatedly
// and from any goroutine.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.running.Store(false)
		close(c.done)
	})
}

// Running reports false once a stop has been requested.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Done is closed once the controller stops.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the controller stops.
func (c *Controller) Wait() {
	<-c.done
}
