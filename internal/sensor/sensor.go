// Package sensor samples the ambient light sensor and the threshold knob.
// Hardware access is behind the PulseMeter and Knob interfaces; the
// Sampler turns raw readings into rate-limited percentages.
package sensor

import (
	"errors"
	"time"
)

// ErrNoPulse is returned by a PulseMeter when no complete pulse was seen
// before the timeout.
var ErrNoPulse = errors.New("sensor: no pulse within timeout")

// PulseMeter measures the width of one high pulse on the light sensor line.
type PulseMeter interface {
	// Measure blocks for at most timeout. It returns ErrNoPulse if no
	// complete pulse was observed.
	Measure(timeout time.Duration) (time.Duration, error)
}

// Knob reads the raw analog value of the threshold knob.
type Knob interface {
	Raw() (int, error)
}

// Defaults for the light sensor and knob.
const (
	DefaultSampleInterval = 500 * time.Millisecond
	DefaultMaxPulse       = 4 * time.Millisecond

	// DefaultPulseTimeout covers a full pulse that starts just after the
	// measurement begins.
	DefaultPulseTimeout = 2 * DefaultMaxPulse

	// DefaultKnobMax is the highest raw value the knob reaches. The ADC runs
	// below its reference voltage so this is under the converter's full scale.
	DefaultKnobMax = 675
)

// PulsePercent converts a pulse width into a light percentage: a longer
// pulse means less light. Widths outside [0, full] are clamped.
func PulsePercent(width, full time.Duration) int {
	if width >= full {
		return 0
	}
	if width <= 0 {
		return 100
	}
	return int((full - width) * 100 / full)
}

// KnobPercent converts a raw knob value into a threshold percentage using
// the calibrated maximum. Values outside [0, full] are clamped.
func KnobPercent(raw, full int) int {
	if raw >= full {
		return 0
	}
	if raw <= 0 {
		return 100
	}
	return (full - raw) * 100 / full
}
