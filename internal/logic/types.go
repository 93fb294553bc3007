// Package logic contains the pure interval scheduling rules for the pomodoro timer.
// This package has NO external dependencies (no notifications, MQTT, OS, or time.Sleep).
// It decides what comes next; callers decide when.
package logic

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Phase represents the kind of interval currently running.
type Phase string

const (
	PhaseWorking    Phase = "WORKING"
	PhaseShortBreak Phase = "SHORT_BREAK"
	PhaseLongBreak  Phase = "LONG_BREAK"
)

// IsBreak reports whether the phase is a short or long break.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// LongBreakEvery is the number of completed work intervals per long break.
const LongBreakEvery = 4

// DoneMessage is printed when a work interval runs to completion.
const DoneMessage = "Pomodoro done"

// ErrNegativeDuration is returned by Durations.Validate.
var ErrNegativeDuration = errors.New("duration must not be negative")

// Durations holds the three interval lengths. Fixed before the loop starts.
type Durations struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// MaxMinutes is the longest interval, in minutes, that fits a time.Duration.
const MaxMinutes = uint64(math.MaxInt64 / int64(time.Minute))

// DurationsFromMinutes converts whole minutes into Durations. A value above
// MaxMinutes becomes a negative duration, which Validate rejects.
func DurationsFromMinutes(work, shortBreak, longBreak uint64) Durations {
	return Durations{
		Work:       minutesToDuration(work),
		ShortBreak: minutesToDuration(shortBreak),
		LongBreak:  minutesToDuration(longBreak),
	}
}

func minutesToDuration(m uint64) time.Duration {
	if m > MaxMinutes {
		return -1
	}
	return time.Duration(m) * time.Minute
}

// Validate checks that no duration is negative.
func (d Durations) Validate() error {
	if d.Work < 0 {
		return fmt.Errorf("work: %w", ErrNegativeDuration)
	}
	if d.ShortBreak < 0 {
		return fmt.Errorf("short break: %w", ErrNegativeDuration)
	}
	if d.LongBreak < 0 {
		return fmt.Errorf("long break: %w", ErrNegativeDuration)
	}
	return nil
}

// Interval is one scheduled span of work or rest.
type Interval struct {
	Phase    Phase
	Duration time.Duration
	// Cycle is the number of completed work intervals when this interval starts.
	Cycle   uint64
	Message string
}

// Minutes returns the displayed minute value: whole seconds / 60, truncated.
// 90s is 1, not 1.5.
func Minutes(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d/time.Second) / 60
}

// WorkMessage formats the line announcing a new work interval.
func WorkMessage(d time.Duration) string {
	return fmt.Sprintf("Starting new pomodoro: %dm", Minutes(d))
}

// ShortBreakMessage formats the line announcing a short break.
func ShortBreakMessage(d time.Duration) string {
	return fmt.Sprintf("Ready for a short pause: %dm", Minutes(d))
}

// LongBreakMessage formats the line announcing a long break.
func LongBreakMessage(d time.Duration) string {
	return fmt.Sprintf("Ready for a long pause: %dm", Minutes(d))
}
