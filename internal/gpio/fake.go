package gpio

import (
	"errors"

	"github.com/sweeney/light-alert/internal/logic"
)

// FakeSwitch is a test double that returns scripted presses.
type FakeSwitch struct {
	// Presses contains scripted events. Each call to Poll consumes the
	// next one; once exhausted Poll returns PressNone.
	Presses []logic.Press

	// index tracks current position in Presses
	index int

	// PollError, if set, will be returned by Poll().
	PollError error
}

// NewFakeSwitch creates a FakeSwitch with the given presses.
func NewFakeSwitch(presses ...logic.Press) *FakeSwitch {
	return &FakeSwitch{Presses: presses}
}

// Poll returns the next scripted press.
func (f *FakeSwitch) Poll() (logic.Press, error) {
	if f.PollError != nil {
		return logic.PressNone, f.PollError
	}
	if f.index >= len(f.Presses) {
		return logic.PressNone, nil
	}
	p := f.Presses[f.index]
	f.index++
	return p, nil
}

// Push queues more presses.
func (f *FakeSwitch) Push(presses ...logic.Press) {
	f.Presses = append(f.Presses, presses...)
}

// Reset resets the switch to the beginning of its presses.
func (f *FakeSwitch) Reset() {
	f.index = 0
}

// FakeAlarm records the levels driven onto the buzzer and LED.
type FakeAlarm struct {
	// On is the current level of both outputs.
	On bool

	// Levels contains every level passed to Set.
	Levels []bool

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// Set records the level.
func (f *FakeAlarm) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if f.Closed {
		return errors.New("alarm closed")
	}
	f.On = on
	f.Levels = append(f.Levels, on)
	return nil
}

// Close drives the outputs low and marks the alarm as closed.
func (f *FakeAlarm) Close() error {
	f.On = false
	f.Closed = true
	return nil
}

// FakeLCDBus records bus operations of an HD44780 driver.
type FakeLCDBus struct {
	// Writes contains every nibble written, tagged with the RS level.
	Writes []Nibble

	rs bool
}

// Nibble is one 4-bit transfer on the LCD bus.
type Nibble struct {
	Data  bool // RS high
	Value byte
}

// SetRS records the register select level.
func (f *FakeLCDBus) SetRS(data bool) error {
	f.rs = data
	return nil
}

// WriteNibble records a transfer.
func (f *FakeLCDBus) WriteNibble(n byte) error {
	f.Writes = append(f.Writes, Nibble{Data: f.rs, Value: n & 0x0f})
	return nil
}

// Bytes reassembles the data-register bytes written so far.
func (f *FakeLCDBus) Bytes() []byte {
	var out []byte
	var hi *Nibble
	for i := range f.Writes {
		w := f.Writes[i]
		if !w.Data {
			hi = nil
			continue
		}
		if hi == nil {
			hi = &f.Writes[i]
			continue
		}
		out = append(out, hi.Value<<4|w.Value)
		hi = nil
	}
	return out
}

// Close is a no-op.
func (f *FakeLCDBus) Close() error {
	return nil
}
