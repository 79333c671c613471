package sensor

import "time"

// FakePulseMeter is a test double that returns scripted pulse widths.
type FakePulseMeter struct {
	// Widths contains scripted widths. Each call to Measure consumes the
	// next one; when exhausted the last is repeated. A negative width
	// simulates a timeout.
	Widths []time.Duration

	// Err, if set, is returned by Measure.
	Err error

	// Calls counts Measure invocations.
	Calls int

	// LastTimeout is the timeout passed to the last Measure call.
	LastTimeout time.Duration

	index int
}

// Measure returns the next scripted width.
func (f *FakePulseMeter) Measure(timeout time.Duration) (time.Duration, error) {
	f.Calls++
	f.LastTimeout = timeout
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Widths) == 0 {
		return 0, ErrNoPulse
	}

	w := f.Widths[f.index]
	if f.index < len(f.Widths)-1 {
		f.index++
	}
	if w < 0 {
		return 0, ErrNoPulse
	}
	return w, nil
}

// SetWidth replaces the script with a single width.
func (f *FakePulseMeter) SetWidth(w time.Duration) {
	f.Widths = []time.Duration{w}
	f.index = 0
}

// FakeKnob is a test double with a settable raw value.
type FakeKnob struct {
	Value int
	Err   error
}

// Raw returns Value or Err.
func (f *FakeKnob) Raw() (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Value, nil
}
