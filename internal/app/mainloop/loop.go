// Package mainloop provides the single goroutine that owns all workspace
// state. Engine callbacks and timers reach controllers only by posting work
// onto it.
package mainloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/siteshell/internal/application/port"
)

// ErrStopped is returned by Invoke once the loop has stopped.
var ErrStopped = errors.New("mainloop: stopped")

// Loop is an unbounded FIFO of callbacks run by Run on one goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped atomic.Bool
}

var _ port.Scheduler = (*Loop)(nil)

// New creates a loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn. Posting after the loop stopped is a no-op.
func (l *Loop) Post(fn func()) {
	if fn == nil || l.stopped.Load() {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Invoke posts fn and waits for it to run. It must not be called from the
// loop goroutine.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	if l.stopped.Load() {
		return ErrStopped
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes callbacks until ctx is cancelled. Work still queued at that
// point stays queued; call Drain to run it.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Drain runs queued callbacks on the calling goroutine until the queue is
// empty, including work posted by the callbacks themselves.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Stop rejects further posts.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Now implements port.Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc implements port.Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) port.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fire() {
				fn()
			}
		})
	})
	return t
}

// Every implements port.Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) port.Timer {
	t := &loopTimer{periodic: true, quit: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Post(func() {
					if t.fire() {
						fn()
					}
				})
			case <-t.quit:
				return
			}
		}
	}()
	return t
}

type loopTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	periodic bool
	quit     chan struct{}
	fired    bool
	stopped  bool
}

// fire runs on the loop and reports whether the callback may still run.
func (t *loopTimer) fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	if !t.periodic {
		t.fired = true
	}
	return true
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.quit != nil {
		close(t.quit)
	}
	return true
}
