package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/light-alert/internal/logic"
)

func TestFakeSwitchPoll(t *testing.T) {
	f := NewFakeSwitch(logic.PressSingle, logic.PressNone, logic.PressDouble)

	want := []logic.Press{logic.PressSingle, logic.PressNone, logic.PressDouble, logic.PressNone, logic.PressNone}
	for i, w := range want {
		p, err := f.Poll()
		if err != nil {
			t.Fatalf("poll %d: unexpected error: %v", i, err)
		}
		if p != w {
			t.Errorf("poll %d: expected %s, got %s", i, w, p)
		}
	}
}

func TestFakeSwitchPushAndReset(t *testing.T) {
	f := NewFakeSwitch()
	f.Push(logic.PressSingle)

	if p, _ := f.Poll(); p != logic.PressSingle {
		t.Errorf("expected pushed press, got %s", p)
	}
	f.Reset()
	if p, _ := f.Poll(); p != logic.PressSingle {
		t.Errorf("after reset: expected first press again, got %s", p)
	}
}

func TestFakeSwitchError(t *testing.T) {
	f := NewFakeSwitch(logic.PressSingle)
	f.PollError = errors.New("simulated error")

	_, err := f.Poll()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeAlarm(t *testing.T) {
	f := &FakeAlarm{}
	f.Set(true)
	f.Set(true)
	f.Set(false)

	if f.On {
		t.Error("expected outputs low")
	}
	if len(f.Levels) != 3 || !f.Levels[0] || !f.Levels[1] || f.Levels[2] {
		t.Errorf("unexpected levels %v", f.Levels)
	}

	f.Set(true)
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if f.On || !f.Closed {
		t.Error("close should drive low and mark closed")
	}
	if err := f.Set(true); err == nil {
		t.Error("expected error setting a closed alarm")
	}
}

func TestFakeLCDBusBytes(t *testing.T) {
	f := &FakeLCDBus{}
	f.SetRS(false)
	f.WriteNibble(0x8)
	f.WriteNibble(0x0)
	f.SetRS(true)
	f.WriteNibble(0x4)
	f.WriteNibble(0x1)
	f.WriteNibble(0x4)
	f.WriteNibble(0x2)

	if got := string(f.Bytes()); got != "AB" {
		t.Errorf("expected AB, got %q", got)
	}
}

func TestPinsAll(t *testing.T) {
	p := DefaultPins()
	if len(p.All()) != 13 {
		t.Errorf("expected 13 lines with LCD, got %d", len(p.All()))
	}
	p.LCD.RS = -1
	if len(p.All()) != 7 {
		t.Errorf("expected 7 lines without LCD, got %d", len(p.All()))
	}
}
