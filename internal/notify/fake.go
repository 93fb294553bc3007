package notify

import (
	"context"
	"sync"
)

// Call is one recorded Notify invocation.
type Call struct {
	Title string
	Body  string
}

// Fake records notifications for test assertions. Safe for concurrent use.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	// Err, if set, is returned by every Notify after the call is recorded.
	Err error

	// Hook, if set, runs inside Notify before it returns.
	Hook func()
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{}
}

// Notify records the call.
func (f *Fake) Notify(_ context.Context, title, body string) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Title: title, Body: body})
	err := f.Err
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reset clears recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}
