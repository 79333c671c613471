package logic

import "time"

// DefaultAlertTimeout bounds how long an unacknowledged alert sounds.
const DefaultAlertTimeout = 180 * time.Second

// Notifier owns the alert lifecycle: Idle -> Active -> Idle.
// While Active the buzzer and indicator LED must be driven high.
type Notifier struct {
	timeout   time.Duration
	active    bool
	startedAt time.Time // zero while Idle

	// alerted suppresses a repeat raise within the same window occurrence.
	// The rule evaluator clears it via ResetAlerted outside the windows.
	alerted bool
}

// NewNotifier creates an idle notifier with the given auto-clear timeout.
func NewNotifier(timeout time.Duration) *Notifier {
	return &Notifier{timeout: timeout}
}

// Raise activates the alert if the verdict asks for it, the notifier is
// idle and no alert was raised yet in this window occurrence.
// Returns true if the alert became active.
func (n *Notifier) Raise(now time.Time, v Verdict) bool {
	if n.active || !v.ShouldAlert || n.alerted {
		return false
	}
	n.active = true
	n.startedAt = now
	n.alerted = true
	return true
}

// Clear returns to Idle. Safe to call while already Idle.
// Returns true if an active alert was cleared.
func (n *Notifier) Clear() bool {
	was := n.active
	n.active = false
	n.startedAt = time.Time{}
	return was
}

// CheckTimeout clears the alert once it has been active for longer than
// the timeout. Returns true if it cleared.
func (n *Notifier) CheckTimeout(now time.Time) bool {
	if !n.active || now.Sub(n.startedAt) <= n.timeout {
		return false
	}
	return n.Clear()
}

// Shift moves the start of an active alert by d, keeping its age when the
// wall clock jumps by d.
func (n *Notifier) Shift(d time.Duration) {
	if n.active {
		n.startedAt = n.startedAt.Add(d)
	}
}

// ResetAlerted re-arms the notifier for the next window occurrence.
func (n *Notifier) ResetAlerted() {
	n.alerted = false
}

// Active reports whether the alert is sounding.
func (n *Notifier) Active() bool {
	return n.active
}

// StartedAt returns when the active alert was raised, or the zero time if idle.
func (n *Notifier) StartedAt() time.Time {
	return n.startedAt
}

// Alerted reports whether the suppression flag is set.
func (n *Notifier) Alerted() bool {
	return n.alerted
}
