package mainloop

import (
	"sort"
	"sync"
	"time"

	"github.com/bnema/siteshell/internal/application/port"
)

// ManualScheduler is a Scheduler driven by hand: time only moves on Advance
// and posted work only runs on Drain. Tests use it to step timers
// deterministically.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*manualTimer
	seq    int
}

var _ port.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler starts the clock at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Post implements port.Scheduler.
func (s *ManualScheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Now implements port.Scheduler.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AfterFunc implements port.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) port.Timer {
	return s.add(d, 0, fn)
}

// Every implements port.Scheduler.
func (s *ManualScheduler) Every(d time.Duration, fn func()) port.Timer {
	return s.add(d, d, fn)
}

func (s *ManualScheduler) add(d, period time.Duration, fn func()) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{sched: s, at: s.now.Add(d), period: period, fn: fn, seq: s.seq}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in order and draining
// the queue after each one.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.nextDue(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			break
		}
		s.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		} else {
			t.done = true
			s.removeLocked(t)
		}
		fn := t.fn
		s.mu.Unlock()

		fn()
		s.Drain()
	}
	s.Drain()
}

func (s *ManualScheduler) nextDue(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.done && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Drain runs queued work until the queue is empty.
func (s *ManualScheduler) Drain() int {
	ran := 0
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// PendingTimers returns the number of armed timers.
func (s *ManualScheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type manualTimer struct {
	sched  *ManualScheduler
	at     time.Time
	period time.Duration
	fn     func()
	seq    int
	done   bool
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.sched.removeLocked(t)
	return true
}
