package domain

// SessionStatus tracks the lifecycle of a playback session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionFinished
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// TimerStatus is the derived state of a countdown.
type TimerStatus int

const (
	TimerIdle TimerStatus = iota // at its original value, not running
	TimerRunning
	TimerPaused
	TimerExpired
)

// String returns a human-readable timer status.
func (t TimerStatus) String() string {
	switch t {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerExpired:
		return "expired"
	default:
		return "unknown"
	}
}
