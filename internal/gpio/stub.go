//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Board is not available on non-Linux platforms.
type Board struct {
	Mode   *RealSwitch
	Up     *RealSwitch
	Down   *RealSwitch
	Action *RealSwitch
	Light  *RealPulseMeter
	Alarm  *RealAlarm
	LCD    *RealLCDBus
}

// Open returns an error on non-Linux platforms.
func Open(chipName string, pins Pins, sw SwitchConfig) (*Board, error) {
	return nil, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (b *Board) Close() error { return nil }

// RealSwitch is not available on non-Linux platforms.
type RealSwitch struct{}

func (s *RealSwitch) Poll() (logic.Press, error) { return logic.PressNone, errUnsupported }
func (s *RealSwitch) Close() error               { return nil }

// RealPulseMeter is not available on non-Linux platforms.
type RealPulseMeter struct{}

func (m *RealPulseMeter) Measure(timeout time.Duration) (time.Duration, error) {
	return 0, errUnsupported
}
func (m *RealPulseMeter) Close() error { return nil }

// RealAlarm is not available on non-Linux platforms.
type RealAlarm struct{}

func (a *RealAlarm) Set(on bool) error { return errUnsupported }
func (a *RealAlarm) Close() error      { return nil }

// RealLCDBus is not available on non-Linux platforms.
type RealLCDBus struct{}

func (l *RealLCDBus) SetRS(data bool) error    { return errUnsupported }
func (l *RealLCDBus) WriteNibble(n byte) error { return errUnsupported }
func (l *RealLCDBus) Close() error             { return nil }
