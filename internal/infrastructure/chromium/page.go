package chromium

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// Context is one page target.
type Context struct {
	id      entity.ContextID
	profile *Profile
	ctx     context.Context
	cancel  context.CancelFunc
	// exec runs protocol actions on the page; nil means chromedp.Run.
	exec func(chromedp.Action) error

	mu       sync.Mutex
	targetID target.ID
	url      string
	title    string
	closed   bool
}

var _ port.BrowsingContext = (*Context)(nil)

// ID implements port.BrowsingContext.
func (c *Context) ID() entity.ContextID { return c.id }

func (c *Context) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// run issues actions without waiting for them. Progress is reported
// through the profile's EngineEvents.
func (c *Context) run(ctx context.Context, what string, actions ...chromedp.Action) error {
	if c.isClosed() {
		return ErrClosed
	}
	log := logging.FromContext(ctx)
	go func() {
		if err := chromedp.Run(c.ctx, actions...); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug().Err(err).Str("context_id", string(c.id)).Str("action", what).Msg("page action failed")
			if what == "load" {
				c.profile.events.LoadFinished(c.id, false)
			}
		}
	}()
	return nil
}

// Load implements port.BrowsingContext.
func (c *Context) Load(ctx context.Context, url string) error {
	return c.run(ctx, "load", chromedp.Navigate(url))
}

// Back implements port.BrowsingContext.
func (c *Context) Back(ctx context.Context) error {
	return c.run(ctx, "back", chromedp.NavigateBack())
}

// Forward implements port.BrowsingContext.
func (c *Context) Forward(ctx context.Context) error {
	return c.run(ctx, "forward", chromedp.NavigateForward())
}

// Reload implements port.BrowsingContext.
func (c *Context) Reload(ctx context.Context) error {
	return c.run(ctx, "reload", chromedp.Reload())
}

// Close implements port.BrowsingContext. It closes the page target.
func (c *Context) Close(context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	tid := c.targetID
	c.mu.Unlock()

	c.profile.forget(tid)
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close page %s: %w", c.id, err)
	}
	return nil
}

func (c *Context) infoChanged(url, title string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	urlChanged := url != "" && url != c.url
	titleChanged := title != "" && title != c.title
	c.url, c.title = url, title
	c.mu.Unlock()

	events := c.profile.events
	if urlChanged {
		events.URLChanged(c.id, url)
	}
	if titleChanged {
		events.TitleChanged(c.id, title)
	}
}

// handleEvent runs on chromedp's event goroutine and must not block on
// protocol calls.
func (c *Context) handleEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *fetch.EventRequestPaused:
		go c.decide(ev)
	case *page.EventLoadEventFired:
		if !c.isClosed() {
			c.profile.events.LoadFinished(c.id, true)
		}
	}
}

// decide asks the guard about a paused document request and releases it.
func (c *Context) decide(ev *fetch.EventRequestPaused) {
	if ev.Request == nil {
		return
	}
	c.mu.Lock()
	topLevel := isMainFrame(ev.FrameID, c.targetID)
	c.mu.Unlock()
	allowed := c.profile.events.AcceptNavigation(c.id, ev.Request.URL, topLevel)

	if err := c.do(releaseAction(ev.RequestID, allowed)); err != nil && !errors.Is(err, context.Canceled) {
		logging.FromContext(c.profile.browserCtx).Warn().
			Err(err).
			Str("context_id", string(c.id)).
			Bool("allowed", allowed).
			Msg("failed to release paused request")
	}
}

func (c *Context) do(action chromedp.Action) error {
	if c.exec != nil {
		return c.exec(action)
	}
	return chromedp.Run(c.ctx, action)
}

// isMainFrame reports whether frame is the main frame of the page target,
// which shares the target's id.
func isMainFrame(frame cdp.FrameID, tid target.ID) bool {
	return frame != "" && string(frame) == string(tid)
}

func releaseAction(id fetch.RequestID, allowed bool) chromedp.Action {
	if allowed {
		return fetch.ContinueRequest(id)
	}
	return fetch.FailRequest(id, network.ErrorReasonBlockedByClient)
}
