// Package scheduler runs the perpetual work/break loop.
//
// The loop announces each interval on the console and through a Notifier,
// then sleeps for the interval's full length. Notifications are never a
// synchronization point: a notifier that blocks or fails does not shorten or
// lengthen any interval. The only way out of Run is cancelling its context.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
	"github.com/sweeney/yolodoro/internal/notify"
)

// DefaultTitle is the notification title used when Config.Title is empty.
const DefaultTitle = "yolodoro"

// Console receives the user-facing line for each transition.
type Console interface {
	Println(phase logic.Phase, msg string)
}

// Observer is told about every interval as it starts.
// Observe is called on the scheduler goroutine. Time spent in it counts
// against the interval, so it should return quickly.
type Observer interface {
	Observe(iv logic.Interval, at time.Time)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(iv logic.Interval, at time.Time)

// Observe calls f.
func (f ObserverFunc) Observe(iv logic.Interval, at time.Time) {
	f(iv, at)
}

// Config wires a Scheduler.
type Config struct {
	Durations logic.Durations
	Notifier  notify.Notifier
	Console   Console
	Title     string
	Clock     Clock
	Observers []Observer
}

// Scheduler owns the Cycle state machine. Run must be called at most once.
type Scheduler struct {
	cycle     *logic.Cycle
	notifier  notify.Notifier
	console   Console
	title     string
	clock     Clock
	observers []Observer
}

// New creates a Scheduler. Missing optional collaborators get no-op or real defaults.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		cycle:     logic.NewCycle(cfg.Durations),
		notifier:  cfg.Notifier,
		console:   cfg.Console,
		title:     cfg.Title,
		clock:     cfg.Clock,
		observers: cfg.Observers,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.title == "" {
		s.title = DefaultTitle
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	return s
}

// Run drives the loop until ctx is cancelled and returns ctx.Err().
// Stop is checked before every transition; an interval in progress is cut
// short only when the clock's sleep observes ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		iv := s.cycle.Next()
		if err := s.runInterval(ctx, iv); err != nil {
			return err
		}

		if iv.Phase == logic.PhaseWorking {
			s.println(logic.PhaseWorking, logic.DoneMessage)
		}
	}
}

func (s *Scheduler) runInterval(ctx context.Context, iv logic.Interval) error {
	start := s.clock.Now()
	deadline := start.Add(iv.Duration)

	s.println(iv.Phase, iv.Message)
	if err := s.notifier.Notify(ctx, s.title, iv.Message); err != nil {
		// Don't stop the loop on notification failure
		log.Printf("notify %s: %v", iv.Phase, err)
	}
	for _, o := range s.observers {
		o.Observe(iv, start)
	}

	// Time spent notifying counts against the interval.
	return s.clock.Sleep(ctx, deadline.Sub(s.clock.Now()))
}

func (s *Scheduler) println(phase logic.Phase, msg string) {
	if s.console != nil {
		s.console.Println(phase, msg)
	}
}

// Count returns the number of completed work intervals. Only meaningful
// from the scheduler goroutine or after Run has returned.
func (s *Scheduler) Count() uint64 {
	return s.cycle.Count()
}
