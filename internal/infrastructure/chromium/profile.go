package chromium

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// documentPatterns pauses every document request, top-level and frames, so
// the navigation guard sees it before the network does.
var documentPatterns = []*fetch.RequestPattern{{
	URLPattern:   "*",
	ResourceType: network.ResourceTypeDocument,
	RequestStage: fetch.RequestStageRequest,
}}

// Profile is one browser process bound to a user data directory.
type Profile struct {
	id         entity.WorkspaceID
	dir        string
	events     port.EngineEvents
	browserCtx context.Context
	cancel     func()

	// closeTarget closes a page the profile did not create.
	closeTarget func(id target.ID) error

	mu       sync.Mutex
	contexts map[target.ID]*Context
	closed   bool
}

var _ port.Profile = (*Profile)(nil)

func newProfile(id entity.WorkspaceID, dir string, events port.EngineEvents, browserCtx context.Context, cancel func()) *Profile {
	p := &Profile{
		id:         id,
		dir:        dir,
		events:     events,
		browserCtx: browserCtx,
		cancel:     cancel,
		contexts:   make(map[target.ID]*Context),
	}
	p.closeTarget = p.closeBrowserTarget
	return p
}

// WorkspaceID implements port.Profile.
func (p *Profile) WorkspaceID() entity.WorkspaceID { return p.id }

// listen watches every target of the browser. Title and URL changes of
// known pages are forwarded; pages opened by a page (window.open,
// target=_blank) are closed before they load anything, since their requests
// never reach the navigation guard. chromedp turns target discovery on when
// it attaches, so these events cover all targets.
func (p *Profile) listen() {
	chromedp.ListenBrowser(p.browserCtx, p.handleBrowserEvent)
}

// handleBrowserEvent runs on chromedp's event goroutine and must not block
// on protocol calls.
func (p *Profile) handleBrowserEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *target.EventTargetCreated:
		if id, ok := p.popup(ev.TargetInfo); ok {
			go p.closePopup(id, ev.TargetInfo.URL)
		}
	case *target.EventTargetInfoChanged:
		info := ev.TargetInfo
		if info == nil || info.Type != "page" {
			return
		}
		if c := p.lookup(info.TargetID); c != nil {
			c.infoChanged(info.URL, info.Title)
		}
	}
}

// popup reports whether info is a page opened by another page rather than
// by NewContext.
func (p *Profile) popup(info *target.Info) (target.ID, bool) {
	if info == nil || info.Type != "page" || info.OpenerID == "" {
		return "", false
	}
	if p.lookup(info.TargetID) != nil {
		return "", false
	}
	return info.TargetID, true
}

func (p *Profile) closePopup(id target.ID, url string) {
	log := logging.FromContext(p.browserCtx)
	if err := p.closeTarget(id); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("target_id", string(id)).Msg("failed to close popup")
		return
	}
	log.Debug().Str("target_id", string(id)).Str("url", url).Msg("popup closed")
}

func (p *Profile) closeBrowserTarget(id target.ID) error {
	c := chromedp.FromContext(p.browserCtx)
	if c == nil || c.Browser == nil {
		return ErrClosed
	}
	return target.CloseTarget(id).Do(cdp.WithExecutor(p.browserCtx, c.Browser))
}

func (p *Profile) lookup(id target.ID) *Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.contexts[id]
}

// NewContext opens a new page target with document interception enabled.
func (p *Profile) NewContext(ctx context.Context) (port.BrowsingContext, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	tabCtx, cancel := chromedp.NewContext(p.browserCtx)
	c := &Context{
		id:      entity.NewContextID(),
		profile: p,
		ctx:     tabCtx,
		cancel:  cancel,
	}
	chromedp.ListenTarget(tabCtx, c.handleEvent)

	if err := chromedp.Run(tabCtx, fetch.Enable().WithPatterns(documentPatterns)); err != nil {
		cancel()
		return nil, fmt.Errorf("create page in workspace %d: %w", p.id, err)
	}
	tid := chromedp.FromContext(tabCtx).Target.TargetID
	c.mu.Lock()
	c.targetID = tid
	c.mu.Unlock()

	p.mu.Lock()
	p.contexts[tid] = c
	p.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Int("workspace_id", int(p.id)).
		Str("context_id", string(c.id)).
		Str("target_id", string(tid)).
		Msg("page created")
	return c, nil
}

func (p *Profile) forget(id target.ID) {
	p.mu.Lock()
	delete(p.contexts, id)
	p.mu.Unlock()
}

// Close closes every page and stops the browser process.
func (p *Profile) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pages := make([]*Context, 0, len(p.contexts))
	for _, c := range p.contexts {
		pages = append(pages, c)
	}
	p.mu.Unlock()

	var errs []error
	for _, c := range pages {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := chromedp.Cancel(p.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, fmt.Errorf("stop browser for workspace %d: %w", p.id, err))
	}
	p.cancel()

	logging.FromContext(ctx).Debug().Int("workspace_id", int(p.id)).Msg("browser profile closed")
	return errors.Join(errs...)
}
