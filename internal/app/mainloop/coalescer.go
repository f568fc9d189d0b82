package mainloop

import "sync"

// Coalescer merges bursts of same-key loop tasks: only the latest callback
// posted for a key before the loop gets to it runs.
type Coalescer[K comparable] struct {
	mu        sync.Mutex
	pending   map[K]func()
	post      func(func())
	destroyed bool
}

// NewCoalescer wraps post, usually a Scheduler's Post.
func NewCoalescer[K comparable](post func(func())) *Coalescer[K] {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer[K]{
		pending: make(map[K]func()),
		post:    post,
	}
}

// Post records fn as the latest work for key and schedules one run.
func (c *Coalescer[K]) Post(key K, fn func()) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	_, scheduled := c.pending[key]
	c.pending[key] = fn
	if scheduled {
		c.mu.Unlock()
		return
	}
	post := c.post
	c.mu.Unlock()

	post(func() {
		c.mu.Lock()
		fn := c.pending[key]
		delete(c.pending, key)
		destroyed := c.destroyed
		c.mu.Unlock()

		if !destroyed && fn != nil {
			fn()
		}
	})
}

// Pending returns the number of keys waiting to run.
func (c *Coalescer[K]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Destroy drops queued work and ignores future posts.
func (c *Coalescer[K]) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[K]func(){}
	c.mu.Unlock()
}
