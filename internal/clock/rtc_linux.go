package clock

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// RTC is a Linux real-time clock device. The device keeps UTC; the system
// clock is updated alongside it on Set.
type RTC struct {
	f   *os.File
	loc *time.Location
}

// OpenRTC opens an RTC character device such as /dev/rtc0.
func OpenRTC(dev string, loc *time.Location) (*RTC, error) {
	f, err := os.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open rtc: %w", err)
	}
	return &RTC{f: f, loc: loc}, nil
}

// Now reads the RTC.
func (r *RTC) Now() (time.Time, error) {
	rt, err := unix.IoctlGetRTCTime(int(r.f.Fd()))
	if err != nil {
		return time.Time{}, fmt.Errorf("read rtc: %w", err)
	}
	return fromRTCTime(rt).In(r.loc), nil
}

// Set writes t to the RTC and then to the system clock.
func (r *RTC) Set(t time.Time) error {
	rt := toRTCTime(t)
	if err := unix.IoctlSetRTCTime(int(r.f.Fd()), &rt); err != nil {
		return fmt.Errorf("set rtc: %w", err)
	}
	return setSystemTime(t)
}

// Close closes the device.
func (r *RTC) Close() error {
	return r.f.Close()
}

func fromRTCTime(rt *unix.RTCTime) time.Time {
	return time.Date(int(rt.Year)+1900, time.Month(rt.Mon+1), int(rt.Mday),
		int(rt.Hour), int(rt.Min), int(rt.Sec), 0, time.UTC)
}

func toRTCTime(t time.Time) unix.RTCTime {
	u := t.UTC()
	return unix.RTCTime{
		Sec:   int32(u.Second()),
		Min:   int32(u.Minute()),
		Hour:  int32(u.Hour()),
		Mday:  int32(u.Day()),
		Mon:   int32(u.Month()) - 1,
		Year:  int32(u.Year()) - 1900,
		Wday:  int32(u.Weekday()),
		Yday:  int32(u.YearDay()) - 1,
		Isdst: 0,
	}
}

// System is the operating system clock.
type System struct {
	loc *time.Location
}

// NewSystem returns the OS clock reporting in loc.
func NewSystem(loc *time.Location) *System {
	return &System{loc: loc}
}

// Now returns the OS time.
func (s *System) Now() (time.Time, error) {
	return time.Now().In(s.loc), nil
}

// Set changes the OS time. Requires CAP_SYS_TIME.
func (s *System) Set(t time.Time) error {
	return setSystemTime(t)
}

// Close is a no-op.
func (s *System) Close() error {
	return nil
}

func setSystemTime(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	if err := unix.Settimeofday(&tv); err != nil {
		return fmt.Errorf("set system time: %w", err)
	}
	return nil
}
