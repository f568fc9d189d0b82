// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
	"github.com/bnema/siteshell/internal/logging"
)

const (
	// DefaultMaxTabs caps live contexts per workspace.
	DefaultMaxTabs = 15
	// DefaultMaxClosedTabs bounds the recently-closed stack per workspace.
	DefaultMaxClosedTabs = 10
)

// ErrUnknownContext is returned when a context id matches no live tab.
var ErrUnknownContext = errors.New("unknown browsing context")

// TabLimits bounds a TabController.
type TabLimits struct {
	MaxTabs   int
	MaxClosed int
}

func (l TabLimits) withDefaults() TabLimits {
	if l.MaxTabs < 1 {
		l.MaxTabs = DefaultMaxTabs
	}
	if l.MaxClosed < 1 {
		l.MaxClosed = DefaultMaxClosedTabs
	}
	return l
}

// TabController owns the ordered browsing contexts of one workspace.
// It must only be used from the event loop.
type TabController struct {
	workspaceID entity.WorkspaceID
	profile     port.Profile
	publisher   port.EventPublisher
	defaultURL  string
	limits      TabLimits

	tabs      *entity.TabList
	contexts  map[entity.ContextID]port.BrowsingContext
	closed    *entity.ClosedStack
	suspended bool
}

// NewTabController creates an empty controller. Contexts are created from
// profile, which is the workspace's isolated storage.
func NewTabController(
	workspaceID entity.WorkspaceID,
	profile port.Profile,
	publisher port.EventPublisher,
	defaultURL string,
	limits TabLimits,
) *TabController {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	limits = limits.withDefaults()
	return &TabController{
		workspaceID: workspaceID,
		profile:     profile,
		publisher:   publisher,
		defaultURL:  defaultURL,
		limits:      limits,
		tabs:        entity.NewTabList(),
		contexts:    make(map[entity.ContextID]port.BrowsingContext),
		closed:      entity.NewClosedStack(limits.MaxClosed),
	}
}

// Open appends a tab loading rawURL (the default URL when empty) and makes
// it active. At the cap it does nothing and returns the active index.
func (c *TabController) Open(ctx context.Context, rawURL string) int {
	log := logging.FromContext(ctx)

	if rawURL == "" {
		rawURL = c.defaultURL
	}
	if c.tabs.Count() >= c.limits.MaxTabs {
		log.Warn().
			Int("workspace_id", int(c.workspaceID)).
			Int("max_tabs", c.limits.MaxTabs).
			Msg("tab limit reached, ignoring open")
		return c.tabs.Active
	}

	bc, err := c.profile.NewContext(ctx)
	if err != nil {
		log.Error().Err(err).Int("workspace_id", int(c.workspaceID)).Msg("failed to create browsing context")
		return c.tabs.Active
	}

	tab := &entity.Tab{ID: bc.ID(), URL: rawURL, Title: entity.DefaultTabTitle}
	index := c.tabs.Add(tab)
	c.contexts[tab.ID] = bc
	c.tabs.Active = index

	log.Debug().
		Int("workspace_id", int(c.workspaceID)).
		Str("context_id", string(tab.ID)).
		Int("index", index).
		Str("url", rawURL).
		Msg("tab opened")

	c.publisher.Publish(entity.Event{
		Name:        entity.EventTabOpened,
		WorkspaceID: c.workspaceID,
		ContextID:   tab.ID,
		Index:       index,
		URL:         rawURL,
	})

	if err := bc.Load(ctx, rawURL); err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("initial load failed")
	}
	return index
}

// Close removes the tab at index and remembers it on the closed stack.
// The last remaining tab is never closed.
func (c *TabController) Close(ctx context.Context, index int) bool {
	log := logging.FromContext(ctx)

	if c.tabs.Count() <= 1 {
		log.Debug().Int("workspace_id", int(c.workspaceID)).Msg("refusing to close last tab")
		return false
	}
	tab, ok := c.tabs.RemoveAt(index)
	if !ok {
		log.Debug().Int("index", index).Msg("close: tab index out of range")
		return false
	}

	c.closed.Push(entity.ClosedTab{URL: tab.URL, Title: entity.TruncateTitle(tab.Title)})

	if bc, ok := c.contexts[tab.ID]; ok {
		delete(c.contexts, tab.ID)
		if err := bc.Close(ctx); err != nil {
			log.Warn().Err(err).Str("context_id", string(tab.ID)).Msg("failed to close browsing context")
		}
	}

	log.Debug().
		Int("workspace_id", int(c.workspaceID)).
		Int("index", index).
		Int("closed_stack", c.closed.Len()).
		Msg("tab closed")

	c.publisher.Publish(entity.Event{
		Name:        entity.EventTabClosed,
		WorkspaceID: c.workspaceID,
		ContextID:   tab.ID,
		Index:       index,
		URL:         tab.URL,
		Title:       tab.Title,
	})
	return true
}

// CloseActive closes the active tab.
func (c *TabController) CloseActive(ctx context.Context) bool {
	return c.Close(ctx, c.tabs.Active)
}

// RestoreLastClosed reopens the most recently closed tab. It reports false
// when the stack is empty or the tab cap is reached; in the latter case the
// entry stays on the stack.
func (c *TabController) RestoreLastClosed(ctx context.Context) (int, bool) {
	if c.closed.Len() == 0 || c.tabs.Count() >= c.limits.MaxTabs {
		return c.tabs.Active, false
	}
	entry, _ := c.closed.Pop()

	before := c.tabs.Count()
	index := c.Open(ctx, entry.URL)
	if c.tabs.Count() == before {
		c.closed.Push(entry)
		return index, false
	}
	if entry.Title != "" {
		c.tabs.At(index).Title = entry.Title
	}
	return index, true
}

// SetActive makes index the active tab.
func (c *TabController) SetActive(ctx context.Context, index int) bool {
	if c.tabs.At(index) == nil {
		logging.FromContext(ctx).Debug().Int("index", index).Msg("set active: tab index out of range")
		return false
	}
	if index == c.tabs.Active {
		return true
	}
	c.tabs.Active = index
	c.publisher.Publish(entity.Event{
		Name:        entity.EventTabActivated,
		WorkspaceID: c.workspaceID,
		ContextID:   c.tabs.Tabs[index].ID,
		Index:       index,
	})
	return true
}

// Next activates the following tab, wrapping around.
func (c *TabController) Next(ctx context.Context) int {
	return c.step(ctx, 1)
}

// Previous activates the preceding tab, wrapping around.
func (c *TabController) Previous(ctx context.Context) int {
	return c.step(ctx, -1)
}

func (c *TabController) step(ctx context.Context, delta int) int {
	n := c.tabs.Count()
	if n == 0 {
		return 0
	}
	next := ((c.tabs.Active+delta)%n + n) % n
	c.SetActive(ctx, next)
	return c.tabs.Active
}

// HandleTitleChanged applies a title reported for context id. Events for
// contexts that are gone are dropped.
func (c *TabController) HandleTitleChanged(ctx context.Context, id entity.ContextID, title string) bool {
	tab := c.tabs.Find(id)
	if tab == nil {
		logging.FromContext(ctx).Trace().Str("context_id", string(id)).Msg("title change for unknown context")
		return false
	}
	// blank pages only show up while a workspace is being unloaded
	if c.suspended || title == "" || title == tab.Title || url.IsBlank(title) {
		return false
	}
	tab.Title = title
	c.publishUpdate(tab)
	return true
}

// HandleURLChanged applies a URL reported for context id.
func (c *TabController) HandleURLChanged(ctx context.Context, id entity.ContextID, rawURL string) bool {
	tab := c.tabs.Find(id)
	if tab == nil {
		logging.FromContext(ctx).Trace().Str("context_id", string(id)).Msg("url change for unknown context")
		return false
	}
	if c.suspended || rawURL == "" || rawURL == tab.URL || url.IsBlank(rawURL) {
		return false
	}
	tab.URL = rawURL
	c.publishUpdate(tab)
	return true
}

func (c *TabController) publishUpdate(tab *entity.Tab) {
	c.publisher.Publish(entity.Event{
		Name:        entity.EventTabUpdated,
		WorkspaceID: c.workspaceID,
		ContextID:   tab.ID,
		Index:       tab.Position,
		URL:         tab.URL,
		Title:       tab.Title,
	})
}

// Navigate loads rawURL in the active tab.
func (c *TabController) Navigate(ctx context.Context, rawURL string) error {
	bc, err := c.activeContext()
	if err != nil {
		return err
	}
	return bc.Load(ctx, rawURL)
}

// LoadInContext loads rawURL in the tab owning id. While the workspace is
// suspended only the tab's URL changes; Resume loads it.
func (c *TabController) LoadInContext(ctx context.Context, id entity.ContextID, rawURL string) error {
	bc, ok := c.contexts[id]
	if !ok {
		return fmt.Errorf("load in context %s: %w", id, ErrUnknownContext)
	}
	if c.suspended {
		if tab := c.tabs.Find(id); tab != nil && tab.URL != rawURL {
			tab.URL = rawURL
			c.publishUpdate(tab)
		}
		return nil
	}
	return bc.Load(ctx, rawURL)
}

// Reload reloads the active tab.
func (c *TabController) Reload(ctx context.Context) error {
	bc, err := c.activeContext()
	if err != nil {
		return err
	}
	return bc.Reload(ctx)
}

// Back goes back in the active tab's history.
func (c *TabController) Back(ctx context.Context) error {
	bc, err := c.activeContext()
	if err != nil {
		return err
	}
	return bc.Back(ctx)
}

// Forward goes forward in the active tab's history.
func (c *TabController) Forward(ctx context.Context) error {
	bc, err := c.activeContext()
	if err != nil {
		return err
	}
	return bc.Forward(ctx)
}

func (c *TabController) activeContext() (port.BrowsingContext, error) {
	tab := c.tabs.ActiveTab()
	if tab == nil {
		return nil, ErrUnknownContext
	}
	bc, ok := c.contexts[tab.ID]
	if !ok {
		return nil, fmt.Errorf("active tab %s: %w", tab.ID, ErrUnknownContext)
	}
	return bc, nil
}

// Suspend unloads every tab by loading the blank page. Tab URLs and titles
// are kept as they were, and engine updates are ignored until Resume. It
// returns the URL each context will come back to.
func (c *TabController) Suspend(ctx context.Context) map[entity.ContextID]string {
	log := logging.FromContext(ctx)
	saved := make(map[entity.ContextID]string, c.tabs.Count())

	c.suspended = true
	for _, tab := range c.tabs.Tabs {
		saved[tab.ID] = tab.URL
		if bc, ok := c.contexts[tab.ID]; ok {
			if err := bc.Load(ctx, url.BlankPage); err != nil {
				log.Warn().Err(err).Str("context_id", string(tab.ID)).Msg("failed to unload tab")
			}
		}
	}
	return saved
}

// Resume reloads each tab's URL after Suspend and returns how many loads
// were issued. Tabs without a context get a new one first.
func (c *TabController) Resume(ctx context.Context) int {
	log := logging.FromContext(ctx)

	c.suspended = false
	loaded := 0
	for _, tab := range c.tabs.Tabs {
		bc, ok := c.contexts[tab.ID]
		if !ok {
			var err error
			if bc, err = c.attach(ctx, tab); err != nil {
				continue
			}
		}
		if err := bc.Load(ctx, tab.URL); err != nil {
			log.Warn().Err(err).Str("context_id", string(tab.ID)).Msg("failed to reload tab")
			continue
		}
		loaded++
	}
	return loaded
}

// Suspended reports whether the tabs are currently unloaded.
func (c *TabController) Suspended() bool {
	return c.suspended
}

// Replace drops every tab and opens snaps instead, keeping at least one tab.
// The closed stack is cleared. When no context can be created the first
// stored tab is kept without one until Reattach succeeds.
func (c *TabController) Replace(ctx context.Context, snaps []entity.TabSnapshot, active int) {
	if err := c.Release(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to release tabs before restore")
	}
	c.closed = entity.NewClosedStack(c.limits.MaxClosed)
	c.suspended = false

	if len(snaps) == 0 {
		snaps = []entity.TabSnapshot{{URL: c.defaultURL}}
	}
	for _, snap := range snaps {
		before := c.tabs.Count()
		index := c.Open(ctx, snap.URL)
		if c.tabs.Count() == before {
			continue
		}
		if snap.Title != "" {
			c.tabs.At(index).Title = snap.Title
		}
	}
	if c.tabs.Count() == 0 {
		c.Open(ctx, c.defaultURL)
	}
	if c.tabs.Count() == 0 {
		first := snaps[0]
		if first.URL == "" {
			first.URL = c.defaultURL
		}
		title := first.Title
		if title == "" {
			title = entity.DefaultTabTitle
		}
		c.tabs.Add(&entity.Tab{ID: entity.NewContextID(), URL: first.URL, Title: title})
		logging.FromContext(ctx).Warn().
			Int("workspace_id", int(c.workspaceID)).
			Str("url", first.URL).
			Msg("no browsing context available, keeping a detached tab")
	}
	c.tabs.Active = entity.ClampIndex(active, c.tabs.Count())
}

// Reattach gives every tab that has no browsing context a new one and loads
// its URL, unless the workspace is suspended. It returns how many tabs were
// attached.
func (c *TabController) Reattach(ctx context.Context) int {
	attached := 0
	for _, tab := range c.tabs.Tabs {
		if _, ok := c.contexts[tab.ID]; ok {
			continue
		}
		bc, err := c.attach(ctx, tab)
		if err != nil {
			continue
		}
		attached++
		if c.suspended {
			continue
		}
		if err := bc.Load(ctx, tab.URL); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("url", tab.URL).Msg("failed to load reattached tab")
		}
	}
	return attached
}

// attach binds a new context to tab. The tab takes the context's id.
func (c *TabController) attach(ctx context.Context, tab *entity.Tab) (port.BrowsingContext, error) {
	bc, err := c.profile.NewContext(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Int("workspace_id", int(c.workspaceID)).
			Msg("failed to create browsing context")
		return nil, err
	}
	tab.ID = bc.ID()
	c.contexts[tab.ID] = bc
	c.publishUpdate(tab)
	return bc, nil
}

// Release closes every browsing context and empties the controller.
func (c *TabController) Release(ctx context.Context) error {
	var errs []error
	for _, tab := range c.tabs.Tabs {
		bc, ok := c.contexts[tab.ID]
		if !ok {
			continue
		}
		if err := bc.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close context %s: %w", tab.ID, err))
		}
	}
	c.tabs = entity.NewTabList()
	c.contexts = make(map[entity.ContextID]port.BrowsingContext)
	return errors.Join(errs...)
}

// Tabs returns a copy of the tabs in display order.
func (c *TabController) Tabs() []entity.Tab {
	out := make([]entity.Tab, 0, c.tabs.Count())
	for _, tab := range c.tabs.Tabs {
		out = append(out, *tab)
	}
	return out
}

// Owns reports whether id belongs to one of this controller's tabs.
func (c *TabController) Owns(id entity.ContextID) bool {
	return c.tabs.IndexOf(id) >= 0
}

// IndexOf resolves a context id to its current display index, or -1.
func (c *TabController) IndexOf(id entity.ContextID) int {
	return c.tabs.IndexOf(id)
}

// ActiveIndex returns the active tab index.
func (c *TabController) ActiveIndex() int {
	return c.tabs.Active
}

// Count returns the number of live tabs.
func (c *TabController) Count() int {
	return c.tabs.Count()
}

// ClosedCount returns the size of the recently-closed stack.
func (c *TabController) ClosedCount() int {
	return c.closed.Len()
}

// Limits returns the configured limits.
func (c *TabController) Limits() TabLimits {
	return c.limits
}
