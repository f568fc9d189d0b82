// Package chromium drives Chrome through the DevTools protocol. Each
// workspace runs its own browser process with its own user data directory,
// so cookies and storage never cross workspaces.
package chromium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// ErrClosed is returned when a closed engine, profile or context is used.
var ErrClosed = errors.New("chromium: closed")

// Config configures the browser processes.
type Config struct {
	// ExecPath is the browser binary; empty lets chromedp look it up.
	ExecPath string
	Headless bool
	// Flags are extra command line switches, "name" or "name=value".
	Flags []string
}

// Engine implements port.Engine on top of chromedp.
type Engine struct {
	cfg Config
	// ctx is the base context for browser lifetimes and carries the logger.
	ctx context.Context

	mu       sync.Mutex
	profiles map[entity.WorkspaceID]*Profile
	closed   bool
}

var _ port.Engine = (*Engine)(nil)

// New creates an engine. Browsers are only launched by OpenProfile.
func New(ctx context.Context, cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		ctx:      logging.WithComponent(context.WithoutCancel(ctx), "chromium"),
		profiles: make(map[entity.WorkspaceID]*Profile),
	}
}

func (e *Engine) allocatorOptions(dir string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserDataDir(dir),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
		chromedp.Flag("disable-popup-blocking", false),
	)
	if e.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.ExecPath))
	}
	if !e.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	for _, f := range e.cfg.Flags {
		name, value, hasValue := strings.Cut(strings.TrimLeft(f, "-"), "=")
		if name == "" {
			continue
		}
		if hasValue {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	return opts
}

// OpenProfile launches the browser process of one workspace.
func (e *Engine) OpenProfile(ctx context.Context, id entity.WorkspaceID, dir string, events port.EngineEvents) (port.Profile, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	if _, exists := e.profiles[id]; exists {
		e.mu.Unlock()
		return nil, fmt.Errorf("workspace %d: profile already open", id)
	}
	e.mu.Unlock()

	base := logging.WithWorkspaceID(e.ctx, int(id))
	allocCtx, allocCancel := chromedp.NewExecAllocator(base, e.allocatorOptions(dir)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// the first run starts the process
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser for workspace %d: %w", id, err)
	}

	p := newProfile(id, dir, events, browserCtx, func() {
		browserCancel()
		allocCancel()
	})
	p.listen()

	e.mu.Lock()
	e.profiles[id] = p
	e.mu.Unlock()

	logging.FromContext(ctx).Info().
		Int("workspace_id", int(id)).
		Str("profile_dir", dir).
		Bool("headless", e.cfg.Headless).
		Msg("browser profile opened")
	return p, nil
}

// Close shuts down every browser still running.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	profiles := make([]*Profile, 0, len(e.profiles))
	for _, p := range e.profiles {
		profiles = append(profiles, p)
	}
	e.profiles = map[entity.WorkspaceID]*Profile{}
	e.mu.Unlock()

	var g errgroup.Group
	for _, p := range profiles {
		g.Go(func() error { return p.Close(ctx) })
	}
	return g.Wait()
}
