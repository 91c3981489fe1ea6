// Package syncer keeps the remote document store eventually consistent
// with the in-memory profile: a one-shot identity bootstrap, a single
// hydrating load per session, and trailing-debounced saves.
package syncer

import (
	"sync"
	"time"
)

// Scheduler owns a single pending timer. Scheduling replaces any
// pending callback, so only the most recently scheduled one fires.
// Independent of any UI lifecycle; safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewScheduler returns an idle scheduler.
func NewScheduler() (s *Scheduler) {
	s = &Scheduler{}
	return s
}

// Schedule arranges fn to run after delay, canceling any pending
// callback. No-op after Stop.
func (s *Scheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, fn)
}

// Cancel stops the pending callback, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Stop cancels the pending callback and refuses further scheduling.
// Called on session teardown so no write fires after shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
