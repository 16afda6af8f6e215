package watcher

import (
	"sync"
	"time"
)

// Settler delays each arrival for a grace interval so the producing process
// can finish writing. Rapid events for the same path are coalesced: each new
// event resets that path's timer.
type Settler struct {
	delay   time.Duration
	pending map[string]*time.Timer
	settled func(path string)
	mu      sync.Mutex
}

// NewSettler creates a Settler. The settled callback fires once per path
// after the delay expires with no further events for that path.
func NewSettler(delay time.Duration, settled func(path string)) *Settler {
	return &Settler{
		delay:   delay,
		pending: make(map[string]*time.Timer),
		settled: settled,
	}
}

// Add schedules a path, resetting any pending timer for it.
func (s *Settler) Add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, exists := s.pending[path]; exists {
		timer.Stop()
	}

	s.pending[path] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		// Callback runs outside the lock so it may call back into the Settler.
		s.settled(path)
	})
}

// CancelAll stops every pending timer. Used during shutdown so no callback
// fires after the dispatch loop has exited.
func (s *Settler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
	}
}

// PendingCount returns the number of paths currently settling.
func (s *Settler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
