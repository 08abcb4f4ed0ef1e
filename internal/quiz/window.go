package quiz

import "time"

// Window statuses.
const (
	WindowNotStarted = "not-started"
	WindowActive     = "active"
	WindowEnded      = "ended"
)

// WindowState is the temporal state of a quiz at a given instant.
type WindowState struct {
	Status    string `json:"status"`
	Remaining int64  `json:"remaining_sec,omitempty"` // until open (not-started) or close (active)
}

// EvaluateWindow computes a quiz window's state at now. Pure; callers
// re-invoke it on their own cadence. Both boundaries are inclusive for
// the active state.
func EvaluateWindow(opensAt, closesAt, now time.Time) WindowState {
	if now.Before(opensAt) {
		return WindowState{Status: WindowNotStarted, Remaining: ceilSeconds(opensAt.Sub(now))}
	}
	if now.After(closesAt) {
		return WindowState{Status: WindowEnded}
	}
	return WindowState{Status: WindowActive, Remaining: ceilSeconds(closesAt.Sub(now))}
}

// Window evaluates the quiz's own window at now.
func (q Quiz) Window(now time.Time) WindowState {
	return EvaluateWindow(q.OpensAt, q.ClosesAt, now)
}

func ceilSeconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if d%time.Second > 0 {
		s++
	}
	return s
}
