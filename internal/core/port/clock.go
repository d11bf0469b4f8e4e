package port

import "time"

// ClockPort abstracts time so the scheduler can be driven in tests without
// waiting for real intervals.
type ClockPort interface {
	Now() time.Time

	// Tick returns a channel that delivers at the given interval and a stop
	// function releasing its resources.
	Tick(interval time.Duration) (<-chan time.Time, func())
}

// SystemClock is the production ClockPort backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Tick(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}
