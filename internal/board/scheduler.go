package board

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler coalesces any number of repaint requests arriving within one
// refresh interval into a single paint call: at most one paint per
// interval, and always one paint after the final request in a burst.
type Scheduler struct {
	mu        sync.Mutex
	interval  time.Duration
	paint     func()
	scheduled bool
	stopped   bool
}

// NewScheduler creates a scheduler invoking paint at most once per
// interval. A zero interval means DefaultFrameInterval.
func NewScheduler(interval time.Duration, paint func()) *Scheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Scheduler{interval: interval, paint: paint}
}

// Request schedules a paint. Requests landing before the pending paint
// fires are absorbed into it.
func (s *Scheduler) Request() {
	s.mu.Lock()
	if s.scheduled || s.stopped {
		s.mu.Unlock()
		return
	}
	s.scheduled = true
	s.mu.Unlock()

	time.AfterFunc(s.interval, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.scheduled = false
	s.mu.Unlock()

	s.paint()
}

// Stop cancels future paints. Pending timers become no-ops.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}
