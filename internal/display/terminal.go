package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/light-alert/internal/logic"
)

var (
	lcdStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Background(lipgloss.Color("22")).
			Foreground(lipgloss.Color("120")).
			Padding(0, 1)
	alarmOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	alarmOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Frame draws the LCD rows as a bordered box.
func Frame(s logic.Screen) string {
	return lcdStyle.Render(lipgloss.JoinVertical(lipgloss.Left, s[0], s[1]))
}

// Indicators draws the buzzer and LED state.
func Indicators(alarm bool) string {
	if alarm {
		return alarmOnStyle.Render("● LED  ♪ BUZZER")
	}
	return alarmOffStyle.Render("○ led  - buzzer")
}

// Terminal writes a frame to w whenever the screen changes.
type Terminal struct {
	w     io.Writer
	shown logic.Screen
	drawn bool
}

// NewTerminal creates a terminal display writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Render writes the frame if it differs from the last one.
func (t *Terminal) Render(s logic.Screen) error {
	if t.drawn && s == t.shown {
		return nil
	}
	if _, err := fmt.Fprintln(t.w, Frame(s)); err != nil {
		return err
	}
	t.shown = s
	t.drawn = true
	return nil
}

// Close is a no-op.
func (t *Terminal) Close() error {
	return nil
}
