// Package shell is the main orchestrator: it owns the four workspaces, wires
// engine callbacks onto the event loop and drives persistence and memory
// management.
package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/siteshell/internal/app/events"
	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/bnema/siteshell/internal/infrastructure/snapshot"
	"github.com/bnema/siteshell/internal/logging"
)

var (
	// ErrInvalidWorkspace is returned for workspace ids outside 0..3.
	ErrInvalidWorkspace = errors.New("invalid workspace id")
	// ErrNotStarted is returned by commands issued before Start or after Shutdown.
	ErrNotStarted = errors.New("shell not running")
)

// Deps are the collaborators the shell drives.
type Deps struct {
	Engine    port.Engine
	Scheduler port.Scheduler
	Sessions  *usecase.ManageSessionUseCase
	Allowlist *usecase.ManageAllowlistUseCase
	// ProfileDir returns the storage directory of a workspace.
	ProfileDir func(entity.WorkspaceID) string
}

// Options tunes the shell. Zero values fall back to defaults.
type Options struct {
	DefaultURL string
	Tabs       usecase.TabLimits
	Memory     usecase.MemoryConfig
	Snapshot   snapshot.Config
	OAuth      navigation.OAuthPolicy
}

// Shell is the orchestrator. Apart from New, Dispatcher and Guard, every
// method must be called on the event loop.
type Shell struct {
	deps Deps
	opts Options

	dispatcher *events.Dispatcher
	guard      *usecase.InterceptNavigationUseCase
	memory     *usecase.MemoryManager
	autosave   *snapshot.Service

	titles *mainloop.Coalescer[entity.ContextID]
	urls   *mainloop.Coalescer[entity.ContextID]

	workspaces [entity.WorkspaceCount]*usecase.WorkspaceController
	profiles   [entity.WorkspaceCount]port.Profile
	current    entity.WorkspaceID
	running    bool
	unsub      []func()
}

// New wires the shell. ctx carries the logger for loop-side callbacks.
func New(ctx context.Context, deps Deps, opts Options) *Shell {
	if opts.OAuth.Mode == "" {
		opts.OAuth = navigation.DefaultOAuthPolicy()
	}

	s := &Shell{deps: deps, opts: opts}
	s.dispatcher = events.NewDispatcher(ctx)
	s.guard = usecase.NewInterceptNavigationUseCase(deps.Allowlist, deps.Scheduler, s.dispatcher, s, opts.OAuth)
	s.memory = usecase.NewMemoryManager(deps.Scheduler, s.dispatcher, opts.Memory)
	s.autosave = snapshot.NewService(deps.Sessions, s, deps.Scheduler, s.dispatcher, opts.Snapshot)
	s.titles = mainloop.NewCoalescer[entity.ContextID](deps.Scheduler.Post)
	s.urls = mainloop.NewCoalescer[entity.ContextID](deps.Scheduler.Post)
	return s
}

// Dispatcher exposes the event table so front-ends can subscribe.
func (s *Shell) Dispatcher() *events.Dispatcher { return s.dispatcher }

// Guard exposes the navigation guard so front-ends can install a presenter
// and an external opener.
func (s *Shell) Guard() *usecase.InterceptNavigationUseCase { return s.guard }

// Start opens one isolated profile per workspace, restores the saved
// session and arms the timers.
func (s *Shell) Start(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "shell")
	log := logging.FromContext(ctx)

	if s.running {
		return nil
	}

	if err := s.deps.Allowlist.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("allowlist unavailable, using core domains only")
	}

	for _, id := range entity.AllWorkspaceIDs() {
		profile, err := s.deps.Engine.OpenProfile(ctx, id, s.deps.ProfileDir(id), &sink{shell: s, ctx: ctx, workspaceID: id})
		if err != nil {
			s.closeProfiles(ctx)
			return fmt.Errorf("open profile for workspace %d: %w", id, err)
		}
		s.profiles[id] = profile
		tabs := usecase.NewTabController(id, profile, s.dispatcher, s.opts.DefaultURL, s.opts.Tabs)
		s.workspaces[id] = usecase.NewWorkspaceController(id, tabs, s.dispatcher)
	}

	session := s.deps.Sessions.Load(ctx)
	for _, id := range entity.AllWorkspaceIDs() {
		s.workspaces[id].Restore(ctx, session[id])
		s.memory.Register(id, s.workspaces[id])
	}

	s.subscribe()
	s.current = 0
	s.memory.Activate(ctx, s.current)
	s.memory.Start(ctx)
	s.autosave.Start(ctx)
	s.running = true

	log.Info().
		Int("workspaces", entity.WorkspaceCount).
		Int("tab_count", session.TabCount()).
		Msg("shell started")
	return nil
}

func (s *Shell) subscribe() {
	structural := func(e entity.Event) {
		if !e.Structural() {
			return
		}
		s.autosave.MarkDirty()
		s.dispatcher.Publish(entity.Event{Name: entity.EventSessionChanged, WorkspaceID: e.WorkspaceID})
	}
	s.unsub = append(s.unsub,
		s.dispatcher.OnAny(structural),
		s.dispatcher.On(entity.EventNoteChanged, func(entity.Event) { s.autosave.MarkNoteDirty() }),
		s.dispatcher.On(entity.EventWorkspaceSwitched, func(entity.Event) { s.autosave.MarkDirty() }),
	)
}

// Shutdown flushes the session, then releases every browsing context, then
// every storage profile and finally the engine.
func (s *Shell) Shutdown(ctx context.Context) error {
	if !s.running {
		return nil
	}
	s.running = false
	log := logging.FromContext(ctx)

	s.memory.Stop()
	var errs []error
	if err := s.autosave.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("final session save failed")
		errs = append(errs, err)
	}

	s.titles.Destroy()
	s.urls.Destroy()
	for _, off := range s.unsub {
		off()
	}
	s.unsub = nil

	for _, ws := range s.workspaces {
		if ws == nil {
			continue
		}
		if err := ws.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("release workspace %d: %w", ws.ID(), err))
		}
	}
	errs = append(errs, s.closeProfiles(ctx)...)

	if err := s.deps.Engine.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close engine: %w", err))
	}

	log.Info().Msg("shell stopped")
	return errors.Join(errs...)
}

func (s *Shell) closeProfiles(ctx context.Context) []error {
	var errs []error
	for i, p := range s.profiles {
		if p == nil {
			continue
		}
		if err := p.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close profile %d: %w", i, err))
		}
		s.profiles[i] = nil
	}
	return errs
}

// ApplyOptions takes the reloadable settings: memory thresholds, OAuth
// policy and save timings.
func (s *Shell) ApplyOptions(ctx context.Context, opts Options) {
	s.opts.Memory = opts.Memory
	s.opts.Snapshot = opts.Snapshot
	s.memory.Reconfigure(ctx, opts.Memory)
	s.autosave.Reconfigure(opts.Snapshot)
	if opts.OAuth.Mode != "" {
		s.opts.OAuth = opts.OAuth
		s.guard.SetOAuthPolicy(opts.OAuth)
	}
	logging.FromContext(ctx).Info().
		Bool("memory_enabled", opts.Memory.Enabled).
		Str("oauth_mode", string(s.opts.OAuth.Mode)).
		Msg("configuration applied")
}

// Snapshot materializes every workspace for persistence.
func (s *Shell) Snapshot() entity.SessionSnapshot {
	snap := make(entity.SessionSnapshot, entity.WorkspaceCount)
	for _, ws := range s.workspaces {
		if ws != nil {
			snap[ws.ID()] = ws.Snapshot()
		}
	}
	return snap
}

// Flush saves immediately.
func (s *Shell) Flush(ctx context.Context) error {
	return s.autosave.Flush(ctx)
}

// LoadInContext loads rawURL into the context id of workspace wsID. It is
// how allowed navigations are retried.
func (s *Shell) LoadInContext(ctx context.Context, wsID entity.WorkspaceID, id entity.ContextID, rawURL string) error {
	if !wsID.Valid() || s.workspaces[wsID] == nil {
		return ErrInvalidWorkspace
	}
	return s.workspaces[wsID].Tabs().LoadInContext(ctx, id, rawURL)
}

var _ usecase.ContextLoader = (*Shell)(nil)
