package port

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped a pending run.
	Stop() bool
}

// Scheduler runs callbacks on the single event loop. Every function passed
// in runs on the loop goroutine, never concurrently with another.
type Scheduler interface {
	// Post queues fn. Safe from any goroutine.
	Post(fn func())
	// AfterFunc runs fn on the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn on the loop every d until stopped.
	Every(d time.Duration, fn func()) Timer
	Now() time.Time
}
