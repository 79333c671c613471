package clock

import (
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// Fake is a settable wall clock for tests and the simulator.
type Fake struct {
	// T is the current time.
	T time.Time

	// Sets contains every time passed to Set.
	Sets []time.Time

	// NowError and SetError, if set, are returned by Now and Set.
	NowError error
	SetError error

	Closed bool
}

// NewFake returns a clock stopped at t.
func NewFake(t time.Time) *Fake {
	return &Fake{T: t}
}

// Now returns T.
func (f *Fake) Now() (time.Time, error) {
	if f.NowError != nil {
		return time.Time{}, f.NowError
	}
	return f.T, nil
}

// Set records t and moves the clock to it.
func (f *Fake) Set(t time.Time) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Sets = append(f.Sets, t)
	f.T = t
	return nil
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

// Close marks the clock closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// FakeTicks is a manually advanced millisecond counter.
type FakeTicks struct {
	T logic.Ticks
}

// Ticks returns the counter value.
func (f *FakeTicks) Ticks() logic.Ticks {
	return f.T
}

// Advance moves the counter forward by d, wrapping like the real counter.
func (f *FakeTicks) Advance(d time.Duration) {
	f.T += logic.Ticks(uint64(d / time.Millisecond))
}
