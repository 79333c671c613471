// Package app runs one control-loop iteration of the light-alert controller:
// read inputs, step the controller, drive outputs, persist a committed clock,
// render and emit diagnostics.
package app

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sweeney/light-alert/internal/clock"
	"github.com/sweeney/light-alert/internal/diag"
	"github.com/sweeney/light-alert/internal/display"
	"github.com/sweeney/light-alert/internal/gpio"
	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
	"github.com/sweeney/light-alert/internal/status"
)

// TickSource is the monotonic millisecond counter.
type TickSource interface {
	Ticks() logic.Ticks
}

// Hardware is the set of collaborators the controller drives.
type Hardware struct {
	Clock   clock.Clock
	Ticks   TickSource
	Mode    logic.Clicker
	Up      logic.Clicker
	Down    logic.Clicker
	Action  logic.Clicker
	Light   sensor.PulseMeter
	Knob    sensor.Knob
	Alarm   gpio.Alarm
	Display display.Display

	// Closers are closed in order by Close. The app does not close the
	// collaborators above on its own.
	Closers []io.Closer
}

// Config holds everything the app needs besides hardware.
type Config struct {
	Logic     logic.Config
	Sensor    sensor.Config
	Heartbeat time.Duration // 0 disables
	Status    status.Config
}

// App owns the controller and its collaborators.
type App struct {
	hw        Hardware
	log       *zap.Logger
	heartbeat time.Duration

	decoder *logic.Decoder
	sampler *sensor.Sampler
	ctrl    *logic.Controller
	tracker *status.Tracker
}

// New creates an app in Normal mode with the alarm off. The wall clock is
// read once to stamp the start time.
func New(hw Hardware, cfg Config, log *zap.Logger) (*App, error) {
	start, err := hw.Clock.Now()
	if err != nil {
		return nil, fmt.Errorf("read clock: %w", err)
	}
	if err := hw.Alarm.Set(false); err != nil {
		return nil, fmt.Errorf("init alarm: %w", err)
	}

	a := &App{
		hw:        hw,
		log:       log,
		heartbeat: cfg.Heartbeat,
		decoder:   logic.NewDecoder(hw.Mode, hw.Up, hw.Down, hw.Action),
		sampler:   sensor.NewSampler(hw.Light, hw.Knob, cfg.Sensor),
		ctrl:      logic.NewController(cfg.Logic, start),
		tracker:   status.NewTracker(start, cfg.Status),
	}
	a.tracker.Update(start, status.State{
		Mode:   a.ctrl.Mode(),
		Screen: logic.NewScreen("", ""),
	})
	return a, nil
}

// Iterate runs one control-loop iteration. A clock read failure skips the
// iteration. Other I/O errors are returned together after the iteration has
// completed with the best values available.
func (a *App) Iterate() error {
	now, err := a.hw.Clock.Now()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	ticks := a.hw.Ticks.Ticks()

	var errs error
	in, err := a.decoder.Decode()
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("read switches: %w", err))
	}
	illum, err := a.sampler.Illumination(ticks)
	errs = multierr.Append(errs, err)
	threshold, err := a.sampler.Threshold(ticks)
	errs = multierr.Append(errs, err)

	out := a.ctrl.Step(logic.Sample{
		Now:          now,
		Input:        in,
		Illumination: illum,
		Threshold:    threshold,
	})

	if err := a.hw.Alarm.Set(out.Alarm); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("drive alarm: %w", err))
	}
	if out.CommitClock {
		if err := a.hw.Clock.Set(out.Clock); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("set clock: %w", err))
		} else {
			out.Events = append(out.Events, a.ctrl.ClockSet(now, out.Clock))
			now = out.Clock
			a.tracker.SetStartTime(a.ctrl.StartTime())
		}
	}
	if err := a.hw.Display.Render(out.Screen); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("render: %w", err))
	}

	for _, e := range out.Events {
		diag.Event(a.log, e)
	}
	if hb := a.ctrl.CheckHeartbeat(now, a.heartbeat); hb != nil {
		diag.Heartbeat(a.log, hb, illum, threshold)
	}

	a.tracker.Update(now, status.State{
		Mode:           a.ctrl.Mode(),
		Alerting:       a.ctrl.Alerting(),
		AlertStartedAt: a.ctrl.AlertStartedAt(),
		Illumination:   illum,
		Threshold:      threshold,
		Screen:         out.Screen,
		Counts:         a.ctrl.Counts(),
	})
	return errs
}

// Snapshot returns the state after the last iteration.
func (a *App) Snapshot() status.Snapshot {
	return a.tracker.Snapshot()
}

// Shutdown discards an uncommitted Timeset draft and silences the alarm.
func (a *App) Shutdown() error {
	if a.ctrl.Abort() {
		a.log.Info("timeset abandoned on shutdown",
			zap.String("event", string(logic.EventTimesetAbandoned)),
			zap.String("mode", string(a.ctrl.Mode())))
		snap := a.tracker.Snapshot()
		snap.Mode = a.ctrl.Mode()
		a.tracker.Update(snap.Now, snap.State)
	}
	if err := a.hw.Alarm.Set(false); err != nil {
		return fmt.Errorf("silence alarm: %w", err)
	}
	return nil
}

// Close releases the hardware in order.
func (a *App) Close() error {
	var err error
	for _, c := range a.hw.Closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
