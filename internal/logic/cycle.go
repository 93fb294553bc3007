package logic

// Cycle is the phase state machine: Working, then a break, then Working again.
// Not safe for concurrent use; it is owned by the scheduler goroutine.
type Cycle struct {
	durations Durations
	phase     Phase
	count     uint64
}

// NewCycle creates a state machine that has not started yet.
func NewCycle(d Durations) *Cycle {
	return &Cycle{durations: d}
}

// Next advances to the following interval and returns it.
// The first call always yields Working. Leaving Working increments the
// counter, and the break is long when the new count is a multiple of
// LongBreakEvery.
func (c *Cycle) Next() Interval {
	if c.phase != PhaseWorking {
		c.phase = PhaseWorking
		return Interval{
			Phase:    PhaseWorking,
			Duration: c.durations.Work,
			Cycle:    c.count,
			Message:  WorkMessage(c.durations.Work),
		}
	}

	c.count++
	if c.count%LongBreakEvery == 0 {
		c.phase = PhaseLongBreak
		return Interval{
			Phase:    PhaseLongBreak,
			Duration: c.durations.LongBreak,
			Cycle:    c.count,
			Message:  LongBreakMessage(c.durations.LongBreak),
		}
	}

	c.phase = PhaseShortBreak
	return Interval{
		Phase:    PhaseShortBreak,
		Duration: c.durations.ShortBreak,
		Cycle:    c.count,
		Message:  ShortBreakMessage(c.durations.ShortBreak),
	}
}

// Phase returns the current phase, or "" before the first call to Next.
func (c *Cycle) Phase() Phase {
	return c.phase
}

// Count returns the number of completed work intervals.
func (c *Cycle) Count() uint64 {
	return c.count
}

// Durations returns the configured interval lengths.
func (c *Cycle) Durations() Durations {
	return c.durations
}

// Plan returns the next n intervals without touching c.
func (c *Cycle) Plan(n int) []Interval {
	preview := *c
	out := make([]Interval, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, preview.Next())
	}
	return out
}
