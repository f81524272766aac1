// Package scheduler manages one-shot delayed actions keyed by channel ID.
// The bot runs two instances: one for bounded first-message waits and one for
// delayed closures.
package scheduler

import (
	"log"
	"sync"
	"time"
)

type Scheduler struct {
	// name distinguishes the instances in logs
	name    string
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

func NewScheduler(name string) *Scheduler {
	return &Scheduler{
		name:    name,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule registers a delayed action for a channel, replacing any pending
// entry for the same key. The action removes its own entry before running, so
// a cancel racing an in-flight fire can never double-execute and fired timers
// release their resources promptly.
func (s *Scheduler) Schedule(channelID string, delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		log.Printf("⚠️ Scheduler %s is stopped - dropping schedule for channel %s", s.name, channelID)
		return
	}

	if existing, ok := s.pending[channelID]; ok {
		existing.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		if !s.claim(channelID, timer) {
			return
		}
		action()
	})
	s.pending[channelID] = timer

	log.Printf("⏰ Scheduler %s: scheduled action for channel %s in %s", s.name, channelID, delay)
}

// Cancel stops the pending action for a channel and reports whether one was
// pending. Cancellation is advisory: an action that has already started
// executing completes.
func (s *Scheduler) Cancel(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.pending[channelID]
	if !ok {
		return false
	}

	timer.Stop()
	delete(s.pending, channelID)
	log.Printf("⏰ Scheduler %s: canceled pending action for channel %s", s.name, channelID)
	return true
}

// PendingCount returns the number of outstanding timers
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending timer and rejects new schedules. In-flight
// actions complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for channelID, timer := range s.pending {
		timer.Stop()
		delete(s.pending, channelID)
	}
}

// claim removes the entry for a firing timer. It returns false when the entry
// was already canceled or replaced by a newer schedule, making the stale
// callback a no-op.
func (s *Scheduler) claim(channelID string, timer *time.Timer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.pending[channelID]
	if !ok || current != timer {
		return false
	}

	delete(s.pending, channelID)
	return true
}
