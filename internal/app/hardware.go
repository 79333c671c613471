package app

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"

	"github.com/sweeney/light-alert/internal/clock"
	"github.com/sweeney/light-alert/internal/config"
	"github.com/sweeney/light-alert/internal/display"
	"github.com/sweeney/light-alert/internal/gpio"
	"github.com/sweeney/light-alert/internal/sensor"
)

// OpenHardware opens the GPIO board, wall clock, knob ADC and display
// described by cfg. Without an LCD, screens are drawn on term.
func OpenHardware(cfg config.Config, term io.Writer) (Hardware, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Hardware{}, err
	}

	board, err := gpio.Open(cfg.GPIO.Chip, cfg.GPIOPins(), cfg.SwitchConfig())
	if err != nil {
		return Hardware{}, fmt.Errorf("init gpio: %w", err)
	}

	knob, err := sensor.NewIIOKnob(cfg.Knob.Device)
	if err != nil {
		return Hardware{}, multierr.Append(fmt.Errorf("init knob: %w", err), board.Close())
	}

	clk, err := clock.Open(cfg.Clock.RTC, loc)
	if err != nil {
		return Hardware{}, multierr.Append(fmt.Errorf("init clock: %w", err), board.Close())
	}

	var disp display.Display
	if board.LCD != nil {
		lcd, err := display.NewHD44780(board.LCD)
		if err != nil {
			return Hardware{}, multierr.Combine(fmt.Errorf("init lcd: %w", err), clk.Close(), board.Close())
		}
		disp = lcd
	} else {
		disp = display.NewTerminal(term)
	}

	return Hardware{
		Clock:   clk,
		Ticks:   clock.NewMonotonic(),
		Mode:    board.Mode,
		Up:      board.Up,
		Down:    board.Down,
		Action:  board.Action,
		Light:   board.Light,
		Knob:    knob,
		Alarm:   board.Alarm,
		Display: disp,
		Closers: []io.Closer{disp, board, clk},
	}, nil
}

// Fakes is a complete set of fake hardware.
type Fakes struct {
	Clock   *clock.Fake
	Ticks   *clock.FakeTicks
	Mode    *gpio.FakeSwitch
	Up      *gpio.FakeSwitch
	Down    *gpio.FakeSwitch
	Action  *gpio.FakeSwitch
	Light   *sensor.FakePulseMeter
	Knob    *sensor.FakeKnob
	Alarm   *gpio.FakeAlarm
	Display *display.Recorder
}

// NewFakes returns fake hardware with the clock at now, a dark room and the
// knob at its calibrated maximum.
func NewFakes(now time.Time) *Fakes {
	return &Fakes{
		Clock:   clock.NewFake(now),
		Ticks:   &clock.FakeTicks{},
		Mode:    gpio.NewFakeSwitch(),
		Up:      gpio.NewFakeSwitch(),
		Down:    gpio.NewFakeSwitch(),
		Action:  gpio.NewFakeSwitch(),
		Light:   &sensor.FakePulseMeter{},
		Knob:    &sensor.FakeKnob{Value: sensor.DefaultKnobMax},
		Alarm:   &gpio.FakeAlarm{},
		Display: &display.Recorder{},
	}
}

// Hardware wires the fakes for New.
func (f *Fakes) Hardware() Hardware {
	return Hardware{
		Clock:   f.Clock,
		Ticks:   f.Ticks,
		Mode:    f.Mode,
		Up:      f.Up,
		Down:    f.Down,
		Action:  f.Action,
		Light:   f.Light,
		Knob:    f.Knob,
		Alarm:   f.Alarm,
		Display: f.Display,
		Closers: []io.Closer{f.Display, f.Alarm, f.Clock},
	}
}

// Advance moves the wall clock and the tick counter forward together.
func (f *Fakes) Advance(d time.Duration) {
	f.Clock.Advance(d)
	f.Ticks.Advance(d)
}
