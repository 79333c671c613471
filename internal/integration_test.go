package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/sweeney/light-alert/internal/clock"
	"github.com/sweeney/light-alert/internal/display"
	"github.com/sweeney/light-alert/internal/gpio"
	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
)

// levelSwitch feeds scripted debounced levels through a ClickDetector, the
// way the real switch does with line values.
type levelSwitch struct {
	levels []bool
	i      int
	clicks *gpio.ClickDetector
	now    *time.Time
}

func newLevelSwitch(window time.Duration, now *time.Time) *levelSwitch {
	return &levelSwitch{clicks: gpio.NewClickDetector(window), now: now}
}

// pressAt schedules a press held for held polls starting at poll n,
// followed by one released poll. Presses must be scheduled in order.
func (s *levelSwitch) pressAt(n, held int) {
	for len(s.levels) < n {
		s.levels = append(s.levels, false)
	}
	for i := 0; i < held; i++ {
		s.levels = append(s.levels, true)
	}
	s.levels = append(s.levels, false)
}

func (s *levelSwitch) Poll() (logic.Press, error) {
	level := s.i < len(s.levels) && s.levels[s.i]
	s.i++
	return s.clicks.Update(level, *s.now), nil
}

// loop is the main loop wired by hand over fakes.
type loop struct {
	now     time.Time
	ticks   *clock.FakeTicks
	mode    *levelSwitch
	up      *levelSwitch
	down    *levelSwitch
	action  *levelSwitch
	light   *sensor.FakePulseMeter
	knob    *sensor.FakeKnob
	bus     *gpio.FakeLCDBus
	lcd     *display.HD44780
	decoder *logic.Decoder
	sampler *sensor.Sampler
	ctrl    *logic.Controller
	alarm   []bool
	events  []logic.Event
	sets    []time.Time
}

func newLoop(t *testing.T, start time.Time, illumPct, thresholdPct int) *loop {
	t.Helper()
	l := &loop{now: start, ticks: &clock.FakeTicks{}, bus: &gpio.FakeLCDBus{}}
	sw := gpio.DefaultSwitchConfig()
	l.mode = newLevelSwitch(sw.DoublePress, &l.now)
	l.up = newLevelSwitch(0, &l.now)
	l.down = newLevelSwitch(0, &l.now)
	l.action = newLevelSwitch(0, &l.now)

	cfg := sensor.DefaultConfig()
	l.light = &sensor.FakePulseMeter{}
	l.light.SetWidth(cfg.MaxPulse * time.Duration(100-illumPct) / 100)
	l.knob = &sensor.FakeKnob{Value: cfg.KnobMax * (100 - thresholdPct) / 100}

	lcd, err := display.NewHD44780(l.bus)
	if err != nil {
		t.Fatalf("lcd init: %v", err)
	}
	l.lcd = lcd
	l.decoder = logic.NewDecoder(l.mode, l.up, l.down, l.action)
	l.sampler = sensor.NewSampler(l.light, l.knob, cfg)
	l.ctrl = logic.NewController(logic.DefaultConfig(), start)
	return l
}

func (l *loop) iterate(t *testing.T) logic.Output {
	t.Helper()
	in, err := l.decoder.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	illum, err := l.sampler.Illumination(l.ticks.Ticks())
	if err != nil {
		t.Fatalf("illumination: %v", err)
	}
	threshold, err := l.sampler.Threshold(l.ticks.Ticks())
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	out := l.ctrl.Step(logic.Sample{Now: l.now, Input: in, Illumination: illum, Threshold: threshold})
	l.alarm = append(l.alarm, out.Alarm)
	l.events = append(l.events, out.Events...)
	if out.CommitClock {
		l.sets = append(l.sets, out.Clock)
		l.events = append(l.events, l.ctrl.ClockSet(l.now, out.Clock))
		l.now = out.Clock
	}
	if err := l.lcd.Render(out.Screen); err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

// run performs n iterations, step apart.
func (l *loop) run(t *testing.T, step time.Duration, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		l.iterate(t)
		l.now = l.now.Add(step)
		l.ticks.Advance(step)
	}
}

func (l *loop) count(et logic.EventType, reason logic.ClearReason) int {
	n := 0
	for _, e := range l.events {
		if e.Type == et && e.Reason == reason {
			n++
		}
	}
	return n
}

// TestIntegrationWeekdayLightLeftOn runs a Tuesday lunchtime with the light
// on throughout: the light-off window raises one alert that times out, and
// the light-on window is satisfied.
func TestIntegrationWeekdayLightLeftOn(t *testing.T) {
	start := time.Date(2026, 3, 3, 11, 59, 0, 0, time.UTC)
	l := newLoop(t, start, 90, 60)

	l.run(t, time.Second, 65*60)

	if n := l.count(logic.EventAlertRaised, ""); n != 1 {
		t.Errorf("expected 1 ALERT_RAISED, got %d", n)
	}
	if n := l.count(logic.EventAlertCleared, logic.ClearTimeout); n != 1 {
		t.Errorf("expected 1 timeout clear, got %d", n)
	}
	for _, e := range l.events {
		if e.Type == logic.EventAlertRaised && logic.HourMinute(e.Timestamp) != 1201 {
			t.Errorf("alert raised outside the light-off window at %v", e.Timestamp)
		}
		if e.Type == logic.EventAlertCleared {
			raisedAt := time.Date(2026, 3, 3, 12, 1, 0, 0, time.UTC)
			if got := e.Timestamp.Sub(raisedAt); got != 181*time.Second {
				t.Errorf("expected timeout clear 181s after raise, got %v", got)
			}
		}
	}
	if l.alarm[len(l.alarm)-1] {
		t.Error("expected alarm off at the end of the run")
	}
}

// TestIntegrationWeekdayLightLeftOff: dark at the light-on window.
func TestIntegrationWeekdayLightLeftOff(t *testing.T) {
	start := time.Date(2026, 3, 4, 12, 59, 0, 0, time.UTC) // Wednesday
	l := newLoop(t, start, 10, 60)

	l.run(t, time.Second, 3*60)

	if n := l.count(logic.EventAlertRaised, ""); n != 1 {
		t.Fatalf("expected 1 ALERT_RAISED, got %d", n)
	}
	if !l.alarm[len(l.alarm)-1] {
		t.Error("expected alarm still sounding within the timeout")
	}
}

func TestIntegrationWeekendIsSilent(t *testing.T) {
	start := time.Date(2026, 3, 7, 11, 59, 0, 0, time.UTC) // Saturday
	l := newLoop(t, start, 90, 60)

	l.run(t, time.Second, 65*60)

	if len(l.events) != 0 {
		t.Errorf("expected no events on a Saturday, got %v", l.events)
	}
	for i, on := range l.alarm {
		if on {
			t.Fatalf("alarm on at iteration %d", i)
		}
	}
}

func TestIntegrationManualClearFromSwitch(t *testing.T) {
	start := time.Date(2026, 3, 3, 12, 1, 0, 0, time.UTC)
	l := newLoop(t, start, 90, 60)

	l.iterate(t)
	if !l.alarm[0] {
		t.Fatal("expected alarm on in the light-off window")
	}

	// Action switch: held for two polls, then released.
	l.action.pressAt(1, 2)
	l.run(t, 50*time.Millisecond, 3)

	if n := l.count(logic.EventAlertCleared, logic.ClearManual); n != 1 {
		t.Fatalf("expected 1 manual clear, got %d", n)
	}
	if l.alarm[len(l.alarm)-1] {
		t.Error("expected alarm off after manual clear")
	}
}

func TestIntegrationSetClockWithSwitches(t *testing.T) {
	start := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)
	l := newLoop(t, start, 50, 50)
	poll := 50 * time.Millisecond

	// Double press on the mode switch enters Timeset, then up twice on the year.
	l.mode.pressAt(0, 2)
	l.mode.pressAt(4, 2)
	l.up.pressAt(18, 1)
	l.up.pressAt(20, 1)
	l.run(t, poll, 22)

	if l.ctrl.Mode() != logic.ModeTimeset {
		t.Fatalf("expected TIMESET, got %s", l.ctrl.Mode())
	}
	if got := logic.EpochYear + l.ctrl.Draft().Value(logic.FieldYear); got != 2028 {
		t.Errorf("expected draft year 2028, got %d", got)
	}
	if lcd := string(l.bus.Bytes()); !strings.Contains(lcd, "Year    ") || !strings.Contains(lcd, "2028    ") {
		t.Errorf("expected LCD to show the year field, got %q", lcd)
	}

	// A single press reports once the double-press window has passed and
	// moves to the month. Down once, then a double press commits.
	l.mode.pressAt(22, 2)
	l.down.pressAt(36, 1)
	l.mode.pressAt(40, 2)
	l.mode.pressAt(44, 2)
	l.run(t, poll, 25)

	if len(l.sets) != 1 {
		t.Fatalf("expected 1 clock commit, got %d", len(l.sets))
	}
	got := l.sets[0]
	if got.Year() != 2028 || got.Month() != time.February || got.Day() != 3 {
		t.Errorf("expected 3 February 2028, got %v", got)
	}
	if l.ctrl.Mode() != logic.ModeNormal {
		t.Errorf("expected NORMAL after commit, got %s", l.ctrl.Mode())
	}
	if n := l.count(logic.EventClockSet, ""); n != 1 {
		t.Errorf("expected 1 CLOCK_SET, got %d", n)
	}
}
