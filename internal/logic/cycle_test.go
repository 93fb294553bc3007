package logic

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewCycle(t *testing.T) {
	d := DurationsFromMinutes(24, 5, 20)
	c := NewCycle(d)
	if c == nil {
		t.Fatal("NewCycle returned nil")
	}
	if c.Count() != 0 {
		t.Errorf("expected count 0, got %d", c.Count())
	}
	if c.Phase() != "" {
		t.Errorf("expected no phase before first Next, got %s", c.Phase())
	}
	if c.Durations() != d {
		t.Errorf("expected durations %+v, got %+v", d, c.Durations())
	}
}

func TestDurationsFromMinutes(t *testing.T) {
	d := DurationsFromMinutes(24, 5, 20)
	if d.Work != 24*time.Minute {
		t.Errorf("Work: got %v, want 24m", d.Work)
	}
	if d.ShortBreak != 5*time.Minute {
		t.Errorf("ShortBreak: got %v, want 5m", d.ShortBreak)
	}
	if d.LongBreak != 20*time.Minute {
		t.Errorf("LongBreak: got %v, want 20m", d.LongBreak)
	}
}

func TestDurationsFromMinutesOverflow(t *testing.T) {
	d := DurationsFromMinutes(MaxMinutes, MaxMinutes+1, 200000000)
	if d.Work <= 0 {
		t.Errorf("Work at MaxMinutes: got %v, want positive", d.Work)
	}
	if d.ShortBreak >= 0 || d.LongBreak >= 0 {
		t.Errorf("oversized minutes should convert negative, got %v and %v", d.ShortBreak, d.LongBreak)
	}
	if err := d.Validate(); !errors.Is(err, ErrNegativeDuration) {
		t.Errorf("expected ErrNegativeDuration, got %v", err)
	}
}

func TestDurationsValidate(t *testing.T) {
	if err := (Durations{}).Validate(); err != nil {
		t.Errorf("zero durations should be valid: %v", err)
	}

	cases := []Durations{
		{Work: -time.Second},
		{ShortBreak: -time.Second},
		{LongBreak: -time.Second},
	}
	for i, d := range cases {
		err := d.Validate()
		if !errors.Is(err, ErrNegativeDuration) {
			t.Errorf("case %d: expected ErrNegativeDuration, got %v", i, err)
		}
	}
}

func TestMinutesTruncates(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want uint64
	}{
		{0, 0},
		{59 * time.Second, 0},
		{60 * time.Second, 1},
		{90 * time.Second, 1},
		{119 * time.Second, 1},
		{24 * time.Minute, 24},
		{24*time.Minute + 1500*time.Millisecond, 24},
		{-time.Minute, 0},
	}
	for _, tt := range tests {
		if got := Minutes(tt.d); got != tt.want {
			t.Errorf("Minutes(%v): got %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	if got := WorkMessage(90 * time.Second); got != "Starting new pomodoro: 1m" {
		t.Errorf("WorkMessage: got %q", got)
	}
	if got := ShortBreakMessage(5 * time.Minute); got != "Ready for a short pause: 5m" {
		t.Errorf("ShortBreakMessage: got %q", got)
	}
	if got := LongBreakMessage(20 * time.Minute); got != "Ready for a long pause: 20m" {
		t.Errorf("LongBreakMessage: got %q", got)
	}
	if DoneMessage != "Pomodoro done" {
		t.Errorf("DoneMessage: got %q", DoneMessage)
	}
}

func TestFirstIntervalIsWork(t *testing.T) {
	c := NewCycle(DurationsFromMinutes(24, 5, 20))
	iv := c.Next()

	if iv.Phase != PhaseWorking {
		t.Fatalf("expected WORKING, got %s", iv.Phase)
	}
	if iv.Duration != 24*time.Minute {
		t.Errorf("expected 24m, got %v", iv.Duration)
	}
	if iv.Cycle != 0 {
		t.Errorf("expected cycle 0, got %d", iv.Cycle)
	}
	if iv.Message != "Starting new pomodoro: 24m" {
		t.Errorf("unexpected message %q", iv.Message)
	}
	if c.Count() != 0 {
		t.Errorf("starting work must not count, got %d", c.Count())
	}
}

func TestFourCycleScenario(t *testing.T) {
	c := NewCycle(Durations{Work: time.Second, ShortBreak: time.Second, LongBreak: time.Second})

	want := []Phase{
		PhaseWorking, PhaseShortBreak,
		PhaseWorking, PhaseShortBreak,
		PhaseWorking, PhaseShortBreak,
		PhaseWorking, PhaseLongBreak,
	}
	for i, w := range want {
		iv := c.Next()
		if iv.Phase != w {
			t.Errorf("interval %d: expected %s, got %s", i, w, iv.Phase)
		}
	}
	if c.Count() != 4 {
		t.Errorf("expected count 4 after four work intervals, got %d", c.Count())
	}
}

func TestLongBreakEveryFourthCompletion(t *testing.T) {
	c := NewCycle(DurationsFromMinutes(24, 5, 20))

	for n := uint64(1); n <= 40; n++ {
		work := c.Next()
		if work.Phase != PhaseWorking {
			t.Fatalf("completion %d: expected WORKING first, got %s", n, work.Phase)
		}

		brk := c.Next()
		if c.Count() != n {
			t.Fatalf("completion %d: expected count %d, got %d", n, n, c.Count())
		}
		if brk.Cycle != n {
			t.Errorf("completion %d: break cycle %d", n, brk.Cycle)
		}

		wantLong := n%4 == 0
		if wantLong && brk.Phase != PhaseLongBreak {
			t.Errorf("completion %d: expected LONG_BREAK, got %s", n, brk.Phase)
		}
		if !wantLong && brk.Phase != PhaseShortBreak {
			t.Errorf("completion %d: expected SHORT_BREAK, got %s", n, brk.Phase)
		}
	}
}

func TestPhasesAlternate(t *testing.T) {
	c := NewCycle(DurationsFromMinutes(1, 1, 1))

	prev := c.Next()
	if prev.Phase != PhaseWorking {
		t.Fatalf("expected WORKING first, got %s", prev.Phase)
	}
	for i := 1; i < 101; i++ {
		iv := c.Next()
		if iv.Phase.IsBreak() == prev.Phase.IsBreak() {
			t.Fatalf("interval %d: %s followed %s", i, iv.Phase, prev.Phase)
		}
		prev = iv
	}
}

func TestBreakDurationsAndMessages(t *testing.T) {
	c := NewCycle(Durations{Work: 90 * time.Second, ShortBreak: 5 * time.Minute, LongBreak: 20 * time.Minute})

	var short, long Interval
	for i := 0; i < 8; i++ {
		iv := c.Next()
		switch iv.Phase {
		case PhaseWorking:
			if iv.Message != "Starting new pomodoro: 1m" {
				t.Errorf("work message: got %q", iv.Message)
			}
		case PhaseShortBreak:
			short = iv
		case PhaseLongBreak:
			long = iv
		}
	}

	if short.Duration != 5*time.Minute || short.Message != "Ready for a short pause: 5m" {
		t.Errorf("unexpected short break: %+v", short)
	}
	if long.Duration != 20*time.Minute || long.Message != "Ready for a long pause: 20m" {
		t.Errorf("unexpected long break: %+v", long)
	}
}

func TestCounterWraps(t *testing.T) {
	c := NewCycle(DurationsFromMinutes(1, 1, 1))
	c.phase = PhaseWorking
	c.count = math.MaxUint64

	iv := c.Next()
	if c.Count() != 0 {
		t.Errorf("expected counter to wrap to 0, got %d", c.Count())
	}
	// 0 % 4 == 0
	if iv.Phase != PhaseLongBreak {
		t.Errorf("expected LONG_BREAK after wrap, got %s", iv.Phase)
	}
}

func TestZeroDurations(t *testing.T) {
	c := NewCycle(Durations{})
	iv := c.Next()
	if iv.Duration != 0 {
		t.Errorf("expected zero duration, got %v", iv.Duration)
	}
	if iv.Message != "Starting new pomodoro: 0m" {
		t.Errorf("unexpected message %q", iv.Message)
	}
	if next := c.Next(); next.Phase != PhaseShortBreak {
		t.Errorf("expected SHORT_BREAK after zero-length work, got %s", next.Phase)
	}
}

func TestPlanDoesNotAdvance(t *testing.T) {
	c := NewCycle(DurationsFromMinutes(24, 5, 20))
	c.Next()

	plan := c.Plan(4)
	if len(plan) != 4 {
		t.Fatalf("expected 4 planned intervals, got %d", len(plan))
	}
	if plan[0].Phase != PhaseShortBreak || plan[1].Phase != PhaseWorking {
		t.Errorf("unexpected plan start: %s, %s", plan[0].Phase, plan[1].Phase)
	}
	if c.Phase() != PhaseWorking || c.Count() != 0 {
		t.Errorf("Plan mutated the cycle: phase=%s count=%d", c.Phase(), c.Count())
	}

	next := c.Next()
	if next != plan[0] {
		t.Errorf("Next after Plan: got %+v, want %+v", next, plan[0])
	}
}
