package display

import (
	"fmt"
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// Bus is the 4-bit parallel interface of an HD44780 controller.
type Bus interface {
	// SetRS selects the data register (true) or the instruction register.
	SetRS(data bool) error
	// WriteNibble latches the low four bits onto D4..D7.
	WriteNibble(n byte) error
}

// HD44780 instructions.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdSetDDRAM    = 0x80
)

// rowAddr is the DDRAM address of the first column of each row.
var rowAddr = [logic.ScreenRows]byte{0x00, 0x40}

// HD44780 drives an 8x2 character LCD. Rows are only rewritten when their
// text changes.
type HD44780 struct {
	bus   Bus
	sleep func(time.Duration)
	shown [logic.ScreenRows]string
}

// NewHD44780 initialises the controller in 4-bit mode and clears it.
func NewHD44780(bus Bus) (*HD44780, error) {
	return newHD44780(bus, time.Sleep)
}

func newHD44780(bus Bus, sleep func(time.Duration)) (*HD44780, error) {
	d := &HD44780{bus: bus, sleep: sleep}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("init lcd: %w", err)
	}
	return d, nil
}

func (d *HD44780) init() error {
	d.sleep(50 * time.Millisecond)
	if err := d.bus.SetRS(false); err != nil {
		return err
	}
	// Reset sequence: three 8-bit function sets, then switch to 4-bit.
	for _, wait := range []time.Duration{4100 * time.Microsecond, 100 * time.Microsecond, 0} {
		if err := d.bus.WriteNibble(0x3); err != nil {
			return err
		}
		d.sleep(wait)
	}
	if err := d.bus.WriteNibble(0x2); err != nil {
		return err
	}
	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdClear, cmdEntryMode} {
		if err := d.command(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (d *HD44780) command(b byte) error {
	if err := d.bus.SetRS(false); err != nil {
		return err
	}
	if err := d.send(b); err != nil {
		return err
	}
	if b == cmdClear {
		d.sleep(2 * time.Millisecond)
	}
	return nil
}

func (d *HD44780) send(b byte) error {
	if err := d.bus.WriteNibble(b >> 4); err != nil {
		return err
	}
	return d.bus.WriteNibble(b & 0x0f)
}

// Render writes the rows that differ from what is shown.
func (d *HD44780) Render(s logic.Screen) error {
	for row, text := range s {
		if text == d.shown[row] {
			continue
		}
		if err := d.command(cmdSetDDRAM | rowAddr[row]); err != nil {
			return fmt.Errorf("lcd row %d: %w", row, err)
		}
		if err := d.bus.SetRS(true); err != nil {
			return fmt.Errorf("lcd row %d: %w", row, err)
		}
		for i := 0; i < len(text); i++ {
			if err := d.send(text[i]); err != nil {
				return fmt.Errorf("lcd row %d: %w", row, err)
			}
		}
		d.shown[row] = text
	}
	return nil
}

// Close clears the display. The bus stays open; its lines belong to the board.
func (d *HD44780) Close() error {
	return d.command(cmdClear)
}
