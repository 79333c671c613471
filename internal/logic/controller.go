package logic

import "time"

// Config holds the controller's tunables.
type Config struct {
	AlertTimeout time.Duration
	LightOffAt   int // HHMM
	LightOnAt    int // HHMM
	// TimesetIdle abandons an untouched Timeset draft after this long (0 = never).
	TimesetIdle time.Duration
}

// DefaultConfig returns the stock windows and timeout.
func DefaultConfig() Config {
	return Config{
		AlertTimeout: DefaultAlertTimeout,
		LightOffAt:   DefaultLightOffAt,
		LightOnAt:    DefaultLightOnAt,
	}
}

// Sample is everything the controller observes in one loop iteration.
type Sample struct {
	Now          time.Time // wall clock
	Input        Input
	Illumination int // percent
	Threshold    int // percent
}

// Output is what the caller must apply after an iteration.
type Output struct {
	// Alarm is the level for both buzzer and indicator LED. It equals the
	// notifier's active state after the iteration.
	Alarm bool
	// CommitClock asks the caller to persist Clock to the wall clock
	// peripheral and report success with ClockSet.
	CommitClock bool
	Clock       time.Time
	Screen      Screen
	Events      []Event
}

// nextMode is the single-press cycle outside Timeset.
var nextMode = map[Mode]Mode{
	ModeNormal:      ModeCalibration,
	ModeCalibration: ModeTest,
	ModeTest:        ModeNormal,
}

// Controller is the application-mode state machine. It owns the mode, the
// Timeset draft and the alert lifecycle; it is driven by one Step per
// control-loop iteration.
type Controller struct {
	cfg      Config
	rules    Rules
	notifier *Notifier

	mode     Mode
	prevMode Mode   // restored when Timeset is left
	draft    *Draft // non-nil iff mode == ModeTimeset
	lastEdit time.Time

	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates a controller in Normal mode with an idle notifier.
func NewController(cfg Config, startTime time.Time) *Controller {
	return &Controller{
		cfg:           cfg,
		rules:         NewRules(cfg.LightOffAt, cfg.LightOnAt),
		notifier:      NewNotifier(cfg.AlertTimeout),
		mode:          ModeNormal,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Step runs one iteration: input events, alert timeout, rule evaluation,
// notification update, then the screen for the resulting mode.
func (c *Controller) Step(s Sample) Output {
	var out Output

	c.handleInput(s.Now, s.Input, &out)

	if c.notifier.CheckTimeout(s.Now) {
		c.counts.ClearedTimeout++
		out.Events = append(out.Events, c.event(s.Now, EventAlertCleared, ClearTimeout))
	}

	v := c.rules.Evaluate(c.mode, s.Now, s.Illumination, s.Threshold)
	if v.ResetAlerted {
		c.notifier.ResetAlerted()
	}
	if c.notifier.Raise(s.Now, v) {
		c.counts.Raised++
		out.Events = append(out.Events, c.event(s.Now, EventAlertRaised, ""))
	}

	out.Alarm = c.notifier.Active()
	out.Screen = c.screen(s)
	return out
}

func (c *Controller) handleInput(now time.Time, in Input, out *Output) {
	switch in.Mode {
	case PressDouble:
		if c.mode == ModeTimeset {
			c.commitTimeset(now, out)
		} else {
			c.enterTimeset(now, out)
		}
	case PressSingle:
		if c.mode == ModeTimeset {
			c.draft.AdvanceField()
		} else {
			c.setMode(now, nextMode[c.mode], out)
		}
	}

	if c.mode == ModeTimeset {
		if in.Up == PressSingle {
			c.draft.Increment()
		}
		if in.Down == PressSingle {
			c.draft.Decrement()
		}
		if in.Any() {
			c.lastEdit = now
		} else if c.cfg.TimesetIdle > 0 && now.Sub(c.lastEdit) > c.cfg.TimesetIdle {
			c.abandonTimeset(now, out)
		}
	}

	if in.Action == PressSingle && c.notifier.Clear() {
		c.counts.ClearedManual++
		out.Events = append(out.Events, c.event(now, EventAlertCleared, ClearManual))
	}
}

func (c *Controller) setMode(now time.Time, to Mode, out *Output) {
	from := c.mode
	c.mode = to
	e := c.event(now, EventModeChanged, "")
	e.From = from
	out.Events = append(out.Events, e)
}

func (c *Controller) enterTimeset(now time.Time, out *Output) {
	c.prevMode = c.mode
	c.draft = BeginEditing(now)
	c.lastEdit = now
	c.setMode(now, ModeTimeset, out)
}

func (c *Controller) commitTimeset(now time.Time, out *Output) {
	out.CommitClock = true
	out.Clock = c.draft.Commit(now.Location())
	c.draft = nil
	c.setMode(now, c.prevMode, out)
}

// ClockSet records that a committed clock was stored by the wall clock
// peripheral. from is the time the commit was decided at. The alert age,
// uptime and heartbeat interval carry over the jump to.
func (c *Controller) ClockSet(from, to time.Time) Event {
	d := to.Sub(from)
	c.notifier.Shift(d)
	c.startTime = c.startTime.Add(d)
	c.lastHeartbeat = c.lastHeartbeat.Add(d)
	c.counts.ClockSets++

	e := c.event(from, EventClockSet, "")
	e.Clock = to
	return e
}

func (c *Controller) abandonTimeset(now time.Time, out *Output) {
	c.draft = nil
	out.Events = append(out.Events, c.event(now, EventTimesetAbandoned, ""))
	c.setMode(now, c.prevMode, out)
}

// Abort discards an uncommitted Timeset draft, e.g. on shutdown.
// Returns true if a draft was discarded.
func (c *Controller) Abort() bool {
	if c.draft == nil {
		return false
	}
	c.draft = nil
	c.mode = c.prevMode
	return true
}

func (c *Controller) event(now time.Time, t EventType, reason ClearReason) Event {
	return Event{Timestamp: now, Type: t, Mode: c.mode, Reason: reason}
}

func (c *Controller) screen(s Sample) Screen {
	switch c.mode {
	case ModeCalibration:
		return calibrationScreen(s.Illumination, s.Threshold)
	case ModeTimeset:
		return timesetScreen(c.draft)
	default:
		return statusScreen(c.mode, s.Now, s.Illumination)
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Draft returns the Timeset draft, or nil outside Timeset.
func (c *Controller) Draft() *Draft {
	return c.draft
}

// Alerting reports whether the alert is active.
func (c *Controller) Alerting() bool {
	return c.notifier.Active()
}

// AlertStartedAt returns when the active alert was raised (zero if idle).
func (c *Controller) AlertStartedAt() time.Time {
	return c.notifier.StartedAt()
}

// StartTime returns the start time on the current wall clock.
func (c *Controller) StartTime() time.Time {
	return c.startTime
}

// Counts returns a copy of the lifecycle counters.
func (c *Controller) Counts() Counts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Mode:      c.mode,
		Alerting:  c.notifier.Active(),
		Counts:    c.counts,
	}
}
