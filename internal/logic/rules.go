package logic

import (
	"fmt"
	"time"
)

// Expectation is the light state a time window expects.
type Expectation int

const (
	ExpectDark Expectation = iota // light should be off
	ExpectLit                     // light should be on
)

// TimeWindow is a single clock minute per day at which the light is checked.
type TimeWindow struct {
	HourMinute int // HHMM, e.g. 1201
	Excluded   []time.Weekday
	Expect     Expectation
}

// Weekend holds the days excluded from both windows.
var Weekend = []time.Weekday{time.Saturday, time.Sunday}

// Default window minutes.
const (
	DefaultLightOffAt = 1201
	DefaultLightOnAt  = 1301
)

// HourMinute returns hour*100 + minute of t.
func HourMinute(t time.Time) int {
	return t.Hour()*100 + t.Minute()
}

// ValidHourMinute reports whether hm is a valid HHMM clock value.
func ValidHourMinute(hm int) bool {
	return hm >= 0 && hm/100 < 24 && hm%100 < 60
}

// Matches reports whether t falls in the window's minute on a non-excluded day.
// Matching is exact-minute equality; a missed minute skips the window for the day.
func (w TimeWindow) Matches(t time.Time) bool {
	if HourMinute(t) != w.HourMinute {
		return false
	}
	wd := t.Weekday()
	for _, ex := range w.Excluded {
		if wd == ex {
			return false
		}
	}
	return true
}

// Violated reports whether the readings contradict the window's expectation.
func (w TimeWindow) Violated(illum, threshold int) bool {
	if w.Expect == ExpectDark {
		return threshold < illum
	}
	return threshold > illum
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d", w.HourMinute/100, w.HourMinute%100)
}

// Verdict is the outcome of one rule evaluation.
type Verdict struct {
	ShouldAlert bool
	// ResetAlerted clears the repeat-alert suppression flag. It is set
	// whenever the clock is outside both windows.
	ResetAlerted bool
}

// Rules evaluates the two daily windows.
type Rules struct {
	LightOff TimeWindow
	LightOn  TimeWindow
}

// NewRules creates the evaluator for the given HHMM window minutes,
// both excluding the weekend.
func NewRules(lightOffAt, lightOnAt int) Rules {
	return Rules{
		LightOff: TimeWindow{HourMinute: lightOffAt, Excluded: Weekend, Expect: ExpectDark},
		LightOn:  TimeWindow{HourMinute: lightOnAt, Excluded: Weekend, Expect: ExpectLit},
	}
}

// Evaluate decides whether an alert condition holds at now.
// Test mode bypasses the windows and checks threshold > illumination continuously.
func (r Rules) Evaluate(mode Mode, now time.Time, illum, threshold int) Verdict {
	switch {
	case mode == ModeTest:
		return Verdict{ShouldAlert: threshold > illum}
	case r.LightOff.Matches(now):
		return Verdict{ShouldAlert: r.LightOff.Violated(illum, threshold)}
	case r.LightOn.Matches(now):
		return Verdict{ShouldAlert: r.LightOn.Violated(illum, threshold)}
	default:
		return Verdict{ResetAlerted: true}
	}
}
