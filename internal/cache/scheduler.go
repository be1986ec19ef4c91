// Package cache provides the bounded analysis cache: a TTL- and
// capacity-bounded in-memory store with debounced durable persistence.
package cache

import (
	"time"
)

// Scheduler defers a function call by a delay. The cache uses it for the
// persistence debounce window and the periodic cleanup pass; injecting it
// lets tests advance virtual time instead of racing real timers.
type Scheduler interface {
	// Schedule runs fn after delay and returns a cancel function.
	// Cancelling after fn has fired is a no-op.
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler implements Scheduler with real timers.
type TimerScheduler struct{}

// Schedule runs fn on a time.AfterFunc timer.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)

	return func() { t.Stop() }
}
