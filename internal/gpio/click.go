package gpio

import (
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// ClickDetector turns debounced switch levels into press events.
// With a zero double-press window every release is a single press.
// Otherwise a release starts the window: a second press beginning inside it
// is reported as a double press on its release, and if the window passes
// without one the single press is reported.
type ClickDetector struct {
	window time.Duration

	down       bool
	pending    bool      // a first click is waiting for the window to pass
	releasedAt time.Time // release time of the pending click
	second     bool      // the second press of a double is held down
}

// NewClickDetector creates a detector with the given double-press window.
func NewClickDetector(window time.Duration) *ClickDetector {
	return &ClickDetector{window: window}
}

// Update takes the current level and returns at most one event.
func (c *ClickDetector) Update(pressed bool, now time.Time) logic.Press {
	wasDown := c.down
	c.down = pressed

	switch {
	case pressed && !wasDown: // press edge
		if !c.pending {
			return logic.PressNone
		}
		if now.Sub(c.releasedAt) <= c.window {
			c.second = true
			return logic.PressNone
		}
		// Window already passed: flush the pending click, this press starts anew.
		c.pending = false
		return logic.PressSingle

	case !pressed && wasDown: // release edge
		if c.second {
			c.second = false
			c.pending = false
			return logic.PressDouble
		}
		if c.window <= 0 {
			return logic.PressSingle
		}
		c.pending = true
		c.releasedAt = now
		return logic.PressNone

	case !pressed && c.pending && now.Sub(c.releasedAt) > c.window:
		c.pending = false
		return logic.PressSingle
	}
	return logic.PressNone
}
