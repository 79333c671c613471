// Package sim runs the controller against fake hardware in a terminal UI.
// Keys stand in for the switches and the light and knob become adjustable
// percentages.
package sim

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/light-alert/internal/app"
	"github.com/sweeney/light-alert/internal/display"
	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
	"github.com/sweeney/light-alert/internal/status"
)

const step = 5 // percent per arrow key

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

// Model is the bubbletea model of the simulator.
type Model struct {
	app      *app.App
	fakes    *app.Fakes
	sensor   sensor.Config
	logic    logic.Config
	interval time.Duration
	events   *LogBuffer

	light int // percent
	knob  int // percent
	err   error
}

// New creates a simulator driving a over fakes. The fakes must be the ones
// a was built with. Log lines written to events are shown in the view.
func New(a *app.App, fakes *app.Fakes, cfg app.Config, interval time.Duration, events *LogBuffer) *Model {
	m := &Model{
		app:      a,
		fakes:    fakes,
		sensor:   cfg.Sensor,
		logic:    cfg.Logic,
		interval: interval,
		events:   events,
		light:    50,
		knob:     50,
	}
	m.apply()
	return m
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the control loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and loop ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		m.fakes.Advance(m.interval)
		m.err = m.app.Iterate()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.err = m.app.Shutdown()
		return tea.Quit
	case "m":
		m.fakes.Mode.Push(logic.PressSingle)
	case "M":
		m.fakes.Mode.Push(logic.PressDouble)
	case "+", "=":
		m.fakes.Up.Push(logic.PressSingle)
	case "-":
		m.fakes.Down.Push(logic.PressSingle)
	case "c":
		m.fakes.Action.Push(logic.PressSingle)
	case "right":
		m.light = clampPercent(m.light + step)
	case "left":
		m.light = clampPercent(m.light - step)
	case "up":
		m.knob = clampPercent(m.knob + step)
	case "down":
		m.knob = clampPercent(m.knob - step)
	case "t":
		m.fakes.Clock.T = NextWindow(m.fakes.Clock.T, m.logic.LightOffAt, m.logic.LightOnAt)
	}
	m.apply()
	return nil
}

// apply pushes the light and knob percentages into the fake sensors.
func (m *Model) apply() {
	if m.light == 0 {
		m.fakes.Light.SetWidth(-1) // no pulse
	} else {
		m.fakes.Light.SetWidth(m.sensor.MaxPulse * time.Duration(100-m.light) / 100)
	}
	m.fakes.Knob.Value = m.sensor.KnobMax * (100 - m.knob) / 100
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}

// NextWindow returns the start of the next weekday window minute after now.
func NextWindow(now time.Time, offAt, onAt int) time.Time {
	y, mo, d := now.Date()
	for day := 0; day <= 7; day++ {
		for _, hm := range []int{min(offAt, onAt), max(offAt, onAt)} {
			t := time.Date(y, mo, d+day, hm/100, hm%100, 0, 0, now.Location())
			if !t.After(now) {
				continue
			}
			w := logic.TimeWindow{HourMinute: hm, Excluded: logic.Weekend}
			if w.Matches(t) {
				return t
			}
		}
	}
	return now
}

// View draws the LCD, alarm indicators, status and recent events.
func (m *Model) View() string {
	snap := m.app.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("light-alert simulator") + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		display.Frame(snap.Screen), "   ", display.Indicators(snap.Alerting)))
	b.WriteString("\n\n")
	b.WriteString(status.FormatText(snap))
	fmt.Fprintf(&b, "sensors:       light %d%%  knob %d%%\n", m.light, m.knob)
	if m.err != nil {
		b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if lines := m.events.Lines(); len(lines) > 0 {
		b.WriteString("\nrecent events:\n")
		for _, l := range lines {
			b.WriteString("  " + l + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("m mode  M set clock  +/- up/down  c clear  ←/→ light  ↓/↑ knob  t next window  q quit") + "\n")
	return b.String()
}
