package scheduler

import "time"

// CancelFunc stops a scheduled task. It reports whether the cancellation won
// the race: false means the task already fired (or was already cancelled).
// Handlers must tolerate firing concurrently with cancellation, so effects
// behind a scheduler must be idempotent.
type CancelFunc func() bool

// Scheduler runs a function once after a delay. Both engine timers (the
// disconnect grace period and the optional per-round answer timer) go
// through this interface so tests can fire them deterministically.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// RealScheduler implements Scheduler on top of time.AfterFunc.
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// Schedule runs fn on its own goroutine after d.
func (s *RealScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
