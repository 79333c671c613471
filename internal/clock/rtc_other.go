//go:build !linux

package clock

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("clock: setting time requires Linux")

// RTC is not available on non-Linux platforms.
type RTC struct{}

// OpenRTC returns an error on non-Linux platforms.
func OpenRTC(dev string, loc *time.Location) (*RTC, error) {
	return nil, errUnsupported
}

func (r *RTC) Now() (time.Time, error) { return time.Time{}, errUnsupported }
func (r *RTC) Set(t time.Time) error   { return errUnsupported }
func (r *RTC) Close() error            { return nil }

// System reads the OS clock; it cannot set it on this platform.
type System struct {
	loc *time.Location
}

// NewSystem returns the OS clock reporting in loc.
func NewSystem(loc *time.Location) *System {
	return &System{loc: loc}
}

func (s *System) Now() (time.Time, error) { return time.Now().In(s.loc), nil }
func (s *System) Set(t time.Time) error   { return errUnsupported }
func (s *System) Close() error            { return nil }
