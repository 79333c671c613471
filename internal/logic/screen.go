package logic

import (
	"fmt"
	"strings"
	"time"
)

// Display geometry in characters.
const (
	ScreenCols = 8
	ScreenRows = 2
)

// Screen is the text of both display rows, each exactly ScreenCols wide.
type Screen [ScreenRows]string

// FormatPercent renders p as "NN%" left-aligned in a 4-character field.
func FormatPercent(p int) string {
	return fmt.Sprintf("%-4s", fmt.Sprintf("%d%%", p))
}

// pad fits s to the display width, truncating or space-filling on the right.
func pad(s string) string {
	if len(s) >= ScreenCols {
		return s[:ScreenCols]
	}
	return s + strings.Repeat(" ", ScreenCols-len(s))
}

// NewScreen builds a screen from two row strings, fitted to the display width.
func NewScreen(top, bottom string) Screen {
	return Screen{pad(top), pad(bottom)}
}

// statusScreen is the Normal/Test view: weekday and time, then mode letter and light.
func statusScreen(mode Mode, now time.Time, illum int) Screen {
	top := now.Weekday().String()[:3] + fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())
	bottom := string(mode.Letter()) + "   " + FormatPercent(illum)
	return NewScreen(top, bottom)
}

func calibrationScreen(illum, threshold int) Screen {
	return NewScreen("Thr "+FormatPercent(threshold), "Lux "+FormatPercent(illum))
}

func timesetScreen(d *Draft) Screen {
	v := d.Value(d.Current)
	var value string
	if d.Current == FieldYear {
		value = fmt.Sprintf("%d", EpochYear+v)
	} else {
		value = fmt.Sprintf("%02d", v)
	}
	return NewScreen(d.Current.String(), value)
}
