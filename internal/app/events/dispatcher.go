// Package events maps named domain events to ordered listener lists.
package events

import (
	"context"
	"sync"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// Listener receives one event.
type Listener func(entity.Event)

type subscription struct {
	id int
	fn Listener
}

// Dispatcher delivers events synchronously, in registration order, to the
// listeners of the event's name and then to the catch-all listeners.
// Listeners run on the publisher's goroutine, which is the event loop.
type Dispatcher struct {
	ctx context.Context

	mu     sync.RWMutex
	byName map[entity.EventName][]subscription
	any    []subscription
	nextID int
}

var _ port.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates an empty dispatcher. ctx carries the logger used to
// report listener panics.
func NewDispatcher(ctx context.Context) *Dispatcher {
	return &Dispatcher{
		ctx:    ctx,
		byName: make(map[entity.EventName][]subscription),
	}
}

// On registers fn for name and returns a function removing it.
func (d *Dispatcher) On(name entity.EventName, fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.byName[name] = append(d.byName[name], subscription{id: id, fn: fn})
	return func() { d.remove(name, id) }
}

// OnAny registers fn for every event.
func (d *Dispatcher) OnAny(fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.any = append(d.any, subscription{id: id, fn: fn})
	return func() { d.remove("", id) }
}

func (d *Dispatcher) remove(name entity.EventName, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.any
	if name != "" {
		list = d.byName[name]
	}
	out := list[:0:0]
	for _, s := range list {
		if s.id != id {
			out = append(out, s)
		}
	}
	if name == "" {
		d.any = out
	} else {
		d.byName[name] = out
	}
}

// Publish implements port.EventPublisher. A panicking listener is logged
// and does not stop delivery to the others.
func (d *Dispatcher) Publish(e entity.Event) {
	d.mu.RLock()
	named := append([]subscription(nil), d.byName[e.Name]...)
	catchAll := append([]subscription(nil), d.any...)
	d.mu.RUnlock()

	for _, s := range named {
		d.deliver(s.fn, e)
	}
	for _, s := range catchAll {
		d.deliver(s.fn, e)
	}
}

func (d *Dispatcher) deliver(fn Listener, e entity.Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(d.ctx).Error().
				Interface("panic", r).
				Str("event", string(e.Name)).
				Msg("event listener panicked")
		}
	}()
	fn(e)
}

// Listeners returns how many listeners are registered for name.
func (d *Dispatcher) Listeners(name entity.EventName) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byName[name])
}
