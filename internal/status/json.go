package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Mode           string     `json:"mode"`
	Alerting       bool       `json:"alerting"`
	AlertStartedAt string     `json:"alert_started_at,omitempty"`
	Illumination   int        `json:"illumination"`
	Threshold      int        `json:"threshold"`
	Screen         []string   `json:"screen"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	Counts         CountsJSON `json:"event_counts"`
	Config         ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Raised         int `json:"raised"`
	ClearedManual  int `json:"cleared_manual"`
	ClearedTimeout int `json:"cleared_timeout"`
	ClockSets      int `json:"clock_sets"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	PollMs         int64  `json:"poll_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	AlertTimeoutMs int64  `json:"alert_timeout_ms"`
	TimesetIdleMs  int64  `json:"timeset_idle_ms"`
	LightOffAt     int    `json:"light_off_at"`
	LightOnAt      int    `json:"light_on_at"`
	Clock          string `json:"clock"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	inner := StatusInner{
		Mode:          mode,
		Alerting:      snap.Alerting,
		Illumination:  snap.Illumination,
		Threshold:     snap.Threshold,
		Screen:        []string{snap.Screen[0], snap.Screen[1]},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.Format(time.RFC3339),
		Timestamp:     snap.Now.Format(time.RFC3339),
		Counts: CountsJSON{
			Raised:         snap.Counts.Raised,
			ClearedManual:  snap.Counts.ClearedManual,
			ClearedTimeout: snap.Counts.ClearedTimeout,
			ClockSets:      snap.Counts.ClockSets,
		},
		Config: ConfigJSON(snap.Config),
	}
	if snap.Alerting {
		inner.AlertStartedAt = snap.AlertStartedAt.Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the indented JSON status for print-state.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status tagged with a lifecycle event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
