package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
)

func TestFakeIndicatorSet(t *testing.T) {
	f := NewFakeIndicator()

	if f.On() {
		t.Error("should be off initially")
	}

	if err := f.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.On() {
		t.Error("expected on after Set(true)")
	}

	if err := f.Set(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.On() {
		t.Error("expected off after Set(false)")
	}

	if len(f.Values) != 2 {
		t.Errorf("expected 2 values, got %d", len(f.Values))
	}
}

func TestFakeIndicatorError(t *testing.T) {
	f := NewFakeIndicator()
	f.SetError = errors.New("simulated error")

	err := f.Set(true)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if len(f.Values) != 0 {
		t.Errorf("expected nothing recorded, got %d", len(f.Values))
	}
}

func TestFakeIndicatorClose(t *testing.T) {
	f := NewFakeIndicator()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeIndicatorReset(t *testing.T) {
	f := NewFakeIndicator()
	f.Set(true)
	f.Close()
	f.SetError = errors.New("error")

	f.Reset()

	if len(f.Values) != 0 || f.Closed || f.SetError != nil {
		t.Errorf("reset did not clear state: %+v", f)
	}
}

func TestObserverFollowsPhases(t *testing.T) {
	f := NewFakeIndicator()
	o := Observer{Indicator: f}
	c := logic.NewCycle(logic.DurationsFromMinutes(24, 5, 20))

	// W S W S W S W L
	want := []bool{true, false, true, false, true, false, true, false}
	for range want {
		o.Observe(c.Next(), time.Now())
	}

	if len(f.Values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(f.Values))
	}
	for i := range want {
		if f.Values[i] != want[i] {
			t.Errorf("value %d: got %v, want %v", i, f.Values[i], want[i])
		}
	}
}

func TestObserverIgnoresErrors(t *testing.T) {
	f := NewFakeIndicator()
	f.SetError = errors.New("line busy")
	o := Observer{Indicator: f}

	// Must not panic
	o.Observe(logic.Interval{Phase: logic.PhaseWorking}, time.Now())
}

func TestIndicatorInterfaces(t *testing.T) {
	var _ Indicator = (*FakeIndicator)(nil)
	var _ Indicator = (*RealIndicator)(nil)
}
