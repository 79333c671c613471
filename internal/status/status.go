// Package status provides a thread-safe status tracker for the light-alert controller.
// It is read by print-state and the simulator footer.
package status

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// Config contains controller configuration for display.
type Config struct {
	PollMs         int64
	HeartbeatMs    int64
	AlertTimeoutMs int64
	TimesetIdleMs  int64
	LightOffAt     int // HHMM
	LightOnAt      int // HHMM
	Clock          string
}

// State is what the controller reports after each iteration.
type State struct {
	Mode           logic.Mode
	Alerting       bool
	AlertStartedAt time.Time // zero when idle
	Illumination   int
	Threshold      int
	Screen         logic.Screen
	Counts         logic.Counts
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State
	StartTime time.Time
	Now       time.Time // wall clock of the last update
	Config    Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Now:       startTime,
			Config:    cfg,
		},
	}
}

// Update records the state observed at now.
// Called by the app after every iteration.
func (t *Tracker) Update(now time.Time, st State) {
	t.mu.Lock()
	t.snap.State = st
	t.snap.Now = now
	t.mu.Unlock()
}

// SetStartTime moves the start time, e.g. after the wall clock was set.
func (t *Tracker) SetStartTime(start time.Time) {
	t.mu.Lock()
	t.snap.StartTime = start
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// FormatText renders the snapshot for a terminal.
func FormatText(s Snapshot) string {
	var b strings.Builder
	alert := "idle"
	if s.Alerting {
		alert = "ACTIVE since " + s.AlertStartedAt.Format("15:04:05")
	}
	fmt.Fprintf(&b, "mode:          %s\n", s.Mode)
	fmt.Fprintf(&b, "alert:         %s\n", alert)
	fmt.Fprintf(&b, "illumination:  %d%%\n", s.Illumination)
	fmt.Fprintf(&b, "threshold:     %d%%\n", s.Threshold)
	fmt.Fprintf(&b, "clock:         %s\n", s.Now.Format("Mon 2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "windows:       dark at %04d, lit at %04d (weekdays)\n", s.Config.LightOffAt, s.Config.LightOnAt)
	fmt.Fprintf(&b, "uptime:        %v\n", s.Uptime().Truncate(time.Second))
	fmt.Fprintf(&b, "counts:        raised=%d cleared_manual=%d cleared_timeout=%d clock_sets=%d\n",
		s.Counts.Raised, s.Counts.ClearedManual, s.Counts.ClearedTimeout, s.Counts.ClockSets)
	return b.String()
}
