// Package gpio provides the switch, light sensor, alarm output and LCD bus
// hardware of the controller.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "time"

// Alarm drives the buzzer and the indicator LED together.
type Alarm interface {
	// Set drives both outputs high (on) or low.
	Set(on bool) error
	Close() error
}

// Pins holds BCM line offsets for every signal.
type Pins struct {
	Mode   int
	Up     int
	Down   int
	Action int
	Light  int
	Buzzer int
	LED    int
	LCD    LCDPins
}

// LCDPins holds the HD44780 4-bit bus lines. RS < 0 means no LCD is fitted.
type LCDPins struct {
	RS int
	E  int
	D4 int
	D5 int
	D6 int
	D7 int
}

// Enabled reports whether an LCD is configured.
func (p LCDPins) Enabled() bool {
	return p.RS >= 0
}

// Pin definitions (BCM numbering)
const (
	DefaultPinMode   = 5
	DefaultPinUp     = 6
	DefaultPinDown   = 13
	DefaultPinAction = 19
	DefaultPinLight  = 26
	DefaultPinBuzzer = 20
	DefaultPinLED    = 21
)

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		Mode:   DefaultPinMode,
		Up:     DefaultPinUp,
		Down:   DefaultPinDown,
		Action: DefaultPinAction,
		Light:  DefaultPinLight,
		Buzzer: DefaultPinBuzzer,
		LED:    DefaultPinLED,
		LCD:    LCDPins{RS: 7, E: 8, D4: 25, D5: 24, D6: 23, D7: 18},
	}
}

// All returns every configured line offset, LCD lines included when enabled.
func (p Pins) All() []int {
	all := []int{p.Mode, p.Up, p.Down, p.Action, p.Light, p.Buzzer, p.LED}
	if p.LCD.Enabled() {
		all = append(all, p.LCD.RS, p.LCD.E, p.LCD.D4, p.LCD.D5, p.LCD.D6, p.LCD.D7)
	}
	return all
}

// SwitchConfig controls switch debouncing and double-press detection.
type SwitchConfig struct {
	// Debounce is applied by the kernel to every switch line.
	Debounce time.Duration
	// DoublePress is how long after a release the mode switch waits for a
	// second press before reporting a single press.
	DoublePress time.Duration
}

// DefaultSwitchConfig returns the stock switch timing.
func DefaultSwitchConfig() SwitchConfig {
	return SwitchConfig{
		Debounce:    10 * time.Millisecond,
		DoublePress: 400 * time.Millisecond,
	}
}
