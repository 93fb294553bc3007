// Package status provides a thread-safe status tracker for the yolodoro timer.
// It is written by the scheduler goroutine and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
)

// Config contains timer configuration for display.
type Config struct {
	WorkMinutes       uint64
	ShortBreakMinutes uint64
	LongBreakMinutes  uint64
	Notifier          string
	Broker            string
	HTTPAddr          string
	GPIOPin           int
}

// Counts is the number of intervals started per phase.
type Counts struct {
	Work       uint64
	ShortBreak uint64
	LongBreak  uint64
}

// Snapshot is a point-in-time view of timer state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Session       string
	Phase         logic.Phase
	Message       string
	Cycle         uint64
	IntervalStart time.Time
	IntervalEnd   time.Time
	Counts        Counts
	NotifyErrors  uint64
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Started reports whether any interval has begun.
func (s Snapshot) Started() bool {
	return s.Phase != ""
}

// Uptime returns the duration since the timer started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Remaining returns the time left in the current interval, never negative.
func (s Snapshot) Remaining() time.Duration {
	if !s.Started() {
		return 0
	}
	r := s.IntervalEnd.Sub(s.Now)
	if r < 0 {
		return 0
	}
	return r
}

// Tracker holds mutable timer state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, session string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Session:   session,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Observe records the interval that just started.
func (t *Tracker) Observe(iv logic.Interval, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Phase = iv.Phase
	t.snap.Message = iv.Message
	t.snap.Cycle = iv.Cycle
	t.snap.IntervalStart = at
	t.snap.IntervalEnd = at.Add(iv.Duration)
	switch iv.Phase {
	case logic.PhaseWorking:
		t.snap.Counts.Work++
	case logic.PhaseShortBreak:
		t.snap.Counts.ShortBreak++
	case logic.PhaseLongBreak:
		t.snap.Counts.LongBreak++
	}
}

// IncNotifyErrors counts a failed notification.
func (t *Tracker) IncNotifyErrors() {
	t.mu.Lock()
	t.snap.NotifyErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the timer state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
