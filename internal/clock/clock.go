// Package clock provides the wall clock and the monotonic millisecond counter.
package clock

import (
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// Clock is the wall clock peripheral.
type Clock interface {
	// Now returns the current wall-clock time in the clock's location.
	Now() (time.Time, error)
	// Set stores a new wall-clock time.
	Set(t time.Time) error
	Close() error
}

// SystemDevice selects the operating system clock instead of an RTC device.
const SystemDevice = "system"

// DefaultRTC is the first real-time clock device.
const DefaultRTC = "/dev/rtc0"

// Open returns the RTC at dev, or the system clock when dev is SystemDevice.
// Times are reported in loc.
func Open(dev string, loc *time.Location) (Clock, error) {
	if dev == SystemDevice {
		return NewSystem(loc), nil
	}
	rtc, err := OpenRTC(dev, loc)
	if err != nil {
		return nil, err
	}
	return rtc, nil
}

// Monotonic is a free-running millisecond counter that starts at zero when
// created and wraps every 2^32 ms.
type Monotonic struct {
	start time.Time
}

// NewMonotonic starts a counter.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// Ticks returns the current counter value.
func (m *Monotonic) Ticks() logic.Ticks {
	return logic.Ticks(uint64(time.Since(m.start) / time.Millisecond))
}
