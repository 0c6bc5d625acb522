package battle

import "time"

// Timer is a pending continuation.
type Timer interface {
	// Stop prevents the continuation from running. It reports whether the
	// call stopped it.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimeScheduler schedules on real timers.
type TimeScheduler struct{}

func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
