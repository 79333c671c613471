// Package logic contains the pure alert decision logic of the light-alert controller.
// This package has NO external dependencies (no GPIO, clock device, display or logging).
// Time is always injectable via time.Time and Ticks parameters.
package logic

import "time"

// Mode is the active application mode. Exactly one is active at a time.
type Mode string

const (
	ModeNormal      Mode = "NORMAL"
	ModeTest        Mode = "TEST"
	ModeCalibration Mode = "CALIBRATION"
	ModeTimeset     Mode = "TIMESET"
)

// Letter returns the single-character mode marker shown on the display.
func (m Mode) Letter() byte {
	switch m {
	case ModeTest:
		return 'T'
	case ModeCalibration:
		return 'C'
	case ModeTimeset:
		return 'S'
	default:
		return 'N'
	}
}

// EventType names a diagnostic event emitted by the controller.
type EventType string

const (
	EventModeChanged      EventType = "MODE_CHANGED"
	EventAlertRaised      EventType = "ALERT_RAISED"
	EventAlertCleared     EventType = "ALERT_CLEARED"
	EventClockSet         EventType = "CLOCK_SET"
	EventTimesetAbandoned EventType = "TIMESET_ABANDONED"
)

// ClearReason says why an alert was cleared.
type ClearReason string

const (
	ClearManual  ClearReason = "MANUAL"
	ClearTimeout ClearReason = "TIMEOUT"
)

// Event is a named state change for the diagnostics channel.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode        // mode after the event
	From      Mode        // previous mode (EventModeChanged only)
	Reason    ClearReason // EventAlertCleared only
	Clock     time.Time   // committed wall clock (EventClockSet only)
}

// SampledValue is a percentage reading and the tick it was taken at.
type SampledValue struct {
	Value     int
	SampledAt Ticks
}

// Counts tracks the number of alert lifecycle events since startup.
type Counts struct {
	Raised         int
	ClearedManual  int
	ClearedTimeout int
	ClockSets      int
}

// HeartbeatData contains information for a heartbeat diagnostic.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Mode      Mode
	Alerting  bool
	Counts    Counts
}
