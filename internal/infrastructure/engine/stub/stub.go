// Package stub is an in-memory rendering engine. It drives the same
// callbacks as a real engine without rendering anything, which makes it
// useful for tests and for running the shell headless.
package stub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
)

// ErrClosed is returned when a closed context or profile is used.
var ErrClosed = errors.New("stub: closed")

// Engine records every profile it opens.
type Engine struct {
	mu       sync.Mutex
	profiles map[entity.WorkspaceID]*Profile
	journal  []string
	// Titles maps a URL to the title reported after it loads. URLs without
	// an entry report the URL as title.
	Titles map[string]string
	// FailOpen makes OpenProfile fail.
	FailOpen error
	closed   bool
}

// New creates an empty stub engine.
func New() *Engine {
	return &Engine{
		profiles: make(map[entity.WorkspaceID]*Profile),
		Titles:   make(map[string]string),
	}
}

var _ port.Engine = (*Engine)(nil)

// OpenProfile implements port.Engine.
func (e *Engine) OpenProfile(_ context.Context, id entity.WorkspaceID, dir string, events port.EngineEvents) (port.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.FailOpen != nil {
		return nil, e.FailOpen
	}
	if e.closed {
		return nil, ErrClosed
	}
	p := &Profile{engine: e, id: id, dir: dir, events: events}
	e.profiles[id] = p
	e.journal = append(e.journal, fmt.Sprintf("open profile %d", id))
	return p, nil
}

// Close implements port.Engine.
func (e *Engine) Close(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.journal = append(e.journal, "close engine")
	return nil
}

// Profile returns the profile opened for id.
func (e *Engine) Profile(id entity.WorkspaceID) *Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profiles[id]
}

// Journal returns lifecycle entries in the order they happened.
func (e *Engine) Journal() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.journal))
	copy(out, e.journal)
	return out
}

func (e *Engine) record(entry string) {
	e.mu.Lock()
	e.journal = append(e.journal, entry)
	e.mu.Unlock()
}

func (e *Engine) titleFor(url string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.Titles[url]; ok {
		return t
	}
	return url
}

// Profile is one workspace's isolated store.
type Profile struct {
	engine *Engine
	id     entity.WorkspaceID
	dir    string
	events port.EngineEvents

	mu       sync.Mutex
	contexts []*Context
	seq      int
	closed   bool
	failNew  error
}

var _ port.Profile = (*Profile)(nil)

// FailNewContext makes NewContext return err until called again with nil.
func (p *Profile) FailNewContext(err error) {
	p.mu.Lock()
	p.failNew = err
	p.mu.Unlock()
}

// WorkspaceID implements port.Profile.
func (p *Profile) WorkspaceID() entity.WorkspaceID { return p.id }

// Dir returns the storage directory the profile was opened with.
func (p *Profile) Dir() string { return p.dir }

// Closed reports whether Close was called.
func (p *Profile) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// NewContext implements port.Profile.
func (p *Profile) NewContext(context.Context) (port.BrowsingContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.failNew != nil {
		return nil, p.failNew
	}
	p.seq++
	c := &Context{
		profile: p,
		id:      entity.ContextID(fmt.Sprintf("ws%d-ctx%d", p.id, p.seq)),
	}
	p.contexts = append(p.contexts, c)
	return c, nil
}

// Contexts returns every context created so far, closed ones included.
func (p *Profile) Contexts() []*Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Context, len(p.contexts))
	copy(out, p.contexts)
	return out
}

// Context looks up a context by id.
func (p *Profile) Context(id entity.ContextID) *Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.contexts {
		if c.id == id {
			return c
		}
	}
	return nil
}

// Live returns the number of contexts not yet closed.
func (p *Profile) Live() int {
	n := 0
	for _, c := range p.Contexts() {
		if !c.Closed() {
			n++
		}
	}
	return n
}

// Close implements port.Profile.
func (p *Profile) Close(context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.engine.record(fmt.Sprintf("close profile %d", p.id))
	return nil
}

// Context is a fake page with a linear history.
type Context struct {
	profile *Profile
	id      entity.ContextID

	mu      sync.Mutex
	history []string
	pos     int
	loads   []string
	closed  bool
}

var _ port.BrowsingContext = (*Context)(nil)

// ID implements port.BrowsingContext.
func (c *Context) ID() entity.ContextID { return c.id }

// Load implements port.BrowsingContext. The navigation is offered to
// AcceptNavigation first; a refused navigation leaves the page untouched.
func (c *Context) Load(_ context.Context, url string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loads = append(c.loads, url)
	c.mu.Unlock()

	if !c.profile.events.AcceptNavigation(c.id, url, true) {
		return nil
	}

	c.mu.Lock()
	if len(c.history) > 0 {
		c.history = c.history[:c.pos+1]
	}
	c.history = append(c.history, url)
	c.pos = len(c.history) - 1
	c.mu.Unlock()

	c.commit(url)
	return nil
}

// Navigate simulates a navigation started by the page itself, such as a
// link click or a redirect. It reports whether the engine let it through.
func (c *Context) Navigate(url string, topLevel bool) bool {
	if !c.profile.events.AcceptNavigation(c.id, url, topLevel) {
		return false
	}
	if topLevel {
		c.mu.Lock()
		c.history = append(c.history[:min(c.pos+1, len(c.history))], url)
		c.pos = len(c.history) - 1
		c.mu.Unlock()
		c.commit(url)
	}
	return true
}

// SetTitle simulates the page changing its title.
func (c *Context) SetTitle(title string) {
	c.profile.events.TitleChanged(c.id, title)
}

func (c *Context) commit(url string) {
	events := c.profile.events
	events.URLChanged(c.id, url)
	events.TitleChanged(c.id, c.profile.engine.titleFor(url))
	events.LoadFinished(c.id, true)
}

// Back implements port.BrowsingContext.
func (c *Context) Back(context.Context) error {
	return c.step(-1)
}

// Forward implements port.BrowsingContext.
func (c *Context) Forward(context.Context) error {
	return c.step(1)
}

func (c *Context) step(delta int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	next := c.pos + delta
	if next < 0 || next >= len(c.history) {
		c.mu.Unlock()
		return nil
	}
	c.pos = next
	url := c.history[next]
	c.mu.Unlock()

	c.commit(url)
	return nil
}

// Reload implements port.BrowsingContext.
func (c *Context) Reload(context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	loaded := len(c.history) > 0
	c.mu.Unlock()

	if loaded {
		c.profile.events.LoadFinished(c.id, true)
	}
	return nil
}

// Close implements port.BrowsingContext.
func (c *Context) Close(context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.profile.engine.record(fmt.Sprintf("close context %s", c.id))
	return nil
}

// Closed reports whether Close was called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Loads returns every URL passed to Load, refused ones included.
func (c *Context) Loads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.loads))
	copy(out, c.loads)
	return out
}

// CurrentURL returns the committed URL or "".
func (c *Context) CurrentURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return ""
	}
	return c.history[c.pos]
}
