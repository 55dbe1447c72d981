package interact

import (
	"time"
)

// Scheduler runs fn every interval until the returned stop function is
// called. Implementations must not invoke fn after stop returns when fn is
// delivered on the caller's goroutine.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(interval time.Duration, fn func()) (stop func())

func (f SchedulerFunc) Every(interval time.Duration, fn func()) func() {
	return f(interval, fn)
}

// TickerScheduler drives callbacks from a time.Ticker. When Post is set each
// tick is handed to it, so a host with its own event loop can run the
// callback on that loop; otherwise fn runs on the ticker goroutine.
type TickerScheduler struct {
	Post func(fn func())
}

func (s TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if s.Post != nil {
					s.Post(fn)
				} else {
					fn()
				}
			}
		}
	}()
	stopped := false
	return func() {
		if !stopped {
			stopped = true
			close(done)
		}
	}
}
