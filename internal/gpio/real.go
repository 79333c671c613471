//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"

	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
)

// Board owns the GPIO chip and every line the controller uses.
type Board struct {
	chip *gpiocdev.Chip

	Mode   *RealSwitch
	Up     *RealSwitch
	Down   *RealSwitch
	Action *RealSwitch
	Light  *RealPulseMeter
	Alarm  *RealAlarm
	LCD    *RealLCDBus // nil when no LCD is configured
}

// Open requests all lines on the named chip (e.g. "gpiochip0").
// On failure every line requested so far is released.
func Open(chipName string, pins Pins, sw SwitchConfig) (*Board, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	b := &Board{chip: chip}
	if err := b.request(pins, sw); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Board) request(pins Pins, sw SwitchConfig) error {
	var err error
	if b.Mode, err = newRealSwitch(b.chip, pins.Mode, sw.Debounce, sw.DoublePress); err != nil {
		return fmt.Errorf("request mode switch pin %d: %w", pins.Mode, err)
	}
	if b.Up, err = newRealSwitch(b.chip, pins.Up, sw.Debounce, 0); err != nil {
		return fmt.Errorf("request up switch pin %d: %w", pins.Up, err)
	}
	if b.Down, err = newRealSwitch(b.chip, pins.Down, sw.Debounce, 0); err != nil {
		return fmt.Errorf("request down switch pin %d: %w", pins.Down, err)
	}
	if b.Action, err = newRealSwitch(b.chip, pins.Action, sw.Debounce, 0); err != nil {
		return fmt.Errorf("request action switch pin %d: %w", pins.Action, err)
	}
	if b.Light, err = newRealPulseMeter(b.chip, pins.Light); err != nil {
		return fmt.Errorf("request light pin %d: %w", pins.Light, err)
	}
	if b.Alarm, err = newRealAlarm(b.chip, pins.Buzzer, pins.LED); err != nil {
		return err
	}
	if pins.LCD.Enabled() {
		if b.LCD, err = newRealLCDBus(b.chip, pins.LCD); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every line and the chip. Outputs are driven low first.
func (b *Board) Close() error {
	var err error
	for _, s := range []*RealSwitch{b.Mode, b.Up, b.Down, b.Action} {
		if s != nil {
			err = multierr.Append(err, s.Close())
		}
	}
	if b.Light != nil {
		err = multierr.Append(err, b.Light.Close())
	}
	if b.Alarm != nil {
		err = multierr.Append(err, b.Alarm.Close())
	}
	if b.LCD != nil {
		err = multierr.Append(err, b.LCD.Close())
	}
	if b.chip != nil {
		if cerr := b.chip.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close chip: %w", cerr))
		}
	}
	return err
}

// RealSwitch is an active-low momentary switch with the internal pull-up
// enabled and kernel debouncing.
type RealSwitch struct {
	line   *gpiocdev.Line
	clicks *ClickDetector
	now    func() time.Time
}

func newRealSwitch(chip *gpiocdev.Chip, pin int, debounce, doublePress time.Duration) (*RealSwitch, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}
	line, err := chip.RequestLine(pin, opts...)
	if err != nil {
		return nil, err
	}
	return &RealSwitch{line: line, clicks: NewClickDetector(doublePress), now: time.Now}, nil
}

// Poll reads the switch level and returns the decoded press, if any.
func (s *RealSwitch) Poll() (logic.Press, error) {
	v, err := s.line.Value()
	if err != nil {
		return logic.PressNone, fmt.Errorf("read switch: %w", err)
	}
	return s.clicks.Update(v == 1, s.now()), nil
}

// Close releases the line.
func (s *RealSwitch) Close() error {
	return s.line.Close()
}

// RealPulseMeter measures high pulses on the light sensor line from kernel
// edge event timestamps.
type RealPulseMeter struct {
	line   *gpiocdev.Line
	events chan gpiocdev.LineEvent
}

func newRealPulseMeter(chip *gpiocdev.Chip, pin int) (*RealPulseMeter, error) {
	m := &RealPulseMeter{events: make(chan gpiocdev.LineEvent, 64)}
	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(m.handle))
	if err != nil {
		return nil, err
	}
	m.line = line
	return m, nil
}

// handle runs on the gpiocdev watcher goroutine. Events are dropped while
// nobody is measuring and the buffer is full.
func (m *RealPulseMeter) handle(evt gpiocdev.LineEvent) {
	select {
	case m.events <- evt:
	default:
	}
}

// Measure waits for a rising edge followed by a falling edge and returns
// the time between them. Edges seen before the call are discarded.
func (m *RealPulseMeter) Measure(timeout time.Duration) (time.Duration, error) {
	m.drain()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var rise *gpiocdev.LineEvent
	for {
		select {
		case evt := <-m.events:
			switch {
			case evt.Type == gpiocdev.LineEventRisingEdge:
				e := evt
				rise = &e
			case evt.Type == gpiocdev.LineEventFallingEdge && rise != nil:
				return evt.Timestamp - rise.Timestamp, nil
			}
		case <-deadline.C:
			return 0, sensor.ErrNoPulse
		}
	}
}

func (m *RealPulseMeter) drain() {
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

// Close releases the line.
func (m *RealPulseMeter) Close() error {
	return m.line.Close()
}

// RealAlarm drives the buzzer and LED output lines.
type RealAlarm struct {
	buzzer *gpiocdev.Line
	led    *gpiocdev.Line
}

func newRealAlarm(chip *gpiocdev.Chip, buzzerPin, ledPin int) (*RealAlarm, error) {
	buzzer, err := chip.RequestLine(buzzerPin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request buzzer pin %d: %w", buzzerPin, err)
	}
	led, err := chip.RequestLine(ledPin, gpiocdev.AsOutput(0))
	if err != nil {
		buzzer.Close()
		return nil, fmt.Errorf("request led pin %d: %w", ledPin, err)
	}
	return &RealAlarm{buzzer: buzzer, led: led}, nil
}

// Set drives both outputs to the same level.
func (a *RealAlarm) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := a.buzzer.SetValue(v); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}
	if err := a.led.SetValue(v); err != nil {
		return fmt.Errorf("set led: %w", err)
	}
	return nil
}

// Close drives both outputs low and releases them.
func (a *RealAlarm) Close() error {
	err := a.Set(false)
	if cerr := a.buzzer.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("close buzzer: %w", cerr))
	}
	if cerr := a.led.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("close led: %w", cerr))
	}
	return err
}

// RealLCDBus is the 4-bit parallel bus of an HD44780 display.
type RealLCDBus struct {
	rs   *gpiocdev.Line
	e    *gpiocdev.Line
	data *gpiocdev.Lines // D4..D7
}

func newRealLCDBus(chip *gpiocdev.Chip, pins LCDPins) (*RealLCDBus, error) {
	rs, err := chip.RequestLine(pins.RS, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request lcd rs pin %d: %w", pins.RS, err)
	}
	e, err := chip.RequestLine(pins.E, gpiocdev.AsOutput(0))
	if err != nil {
		rs.Close()
		return nil, fmt.Errorf("request lcd e pin %d: %w", pins.E, err)
	}
	data, err := chip.RequestLines([]int{pins.D4, pins.D5, pins.D6, pins.D7}, gpiocdev.AsOutput(0, 0, 0, 0))
	if err != nil {
		rs.Close()
		e.Close()
		return nil, fmt.Errorf("request lcd data pins: %w", err)
	}
	return &RealLCDBus{rs: rs, e: e, data: data}, nil
}

// SetRS selects the data register (true) or the instruction register.
func (l *RealLCDBus) SetRS(data bool) error {
	v := 0
	if data {
		v = 1
	}
	return l.rs.SetValue(v)
}

// WriteNibble puts the low four bits of n on D4..D7 and latches them.
func (l *RealLCDBus) WriteNibble(n byte) error {
	vals := []int{int(n & 1), int(n >> 1 & 1), int(n >> 2 & 1), int(n >> 3 & 1)}
	if err := l.data.SetValues(vals); err != nil {
		return err
	}
	if err := l.e.SetValue(1); err != nil {
		return err
	}
	time.Sleep(time.Microsecond)
	if err := l.e.SetValue(0); err != nil {
		return err
	}
	// Most instructions complete within 37us.
	time.Sleep(50 * time.Microsecond)
	return nil
}

// Close releases the bus lines.
func (l *RealLCDBus) Close() error {
	var err error
	err = multierr.Append(err, l.rs.Close())
	err = multierr.Append(err, l.e.Close())
	err = multierr.Append(err, l.data.Close())
	return err
}
