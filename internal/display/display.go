// Package display renders the controller's two 8-character rows.
package display

import "github.com/sweeney/light-alert/internal/logic"

// Display shows a screen.
type Display interface {
	Render(s logic.Screen) error
	Close() error
}

// Recorder is a test double that records every rendered screen.
type Recorder struct {
	Screens []logic.Screen
	Closed  bool
	// RenderError, if set, is returned by Render.
	RenderError error
}

// Render records s.
func (r *Recorder) Render(s logic.Screen) error {
	if r.RenderError != nil {
		return r.RenderError
	}
	r.Screens = append(r.Screens, s)
	return nil
}

// Last returns the most recent screen, or a blank one.
func (r *Recorder) Last() logic.Screen {
	if len(r.Screens) == 0 {
		return logic.NewScreen("", "")
	}
	return r.Screens[len(r.Screens)-1]
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}
