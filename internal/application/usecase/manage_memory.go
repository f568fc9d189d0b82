package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

const (
	// DefaultMemoryCheckInterval is how often idle workspaces are looked for.
	DefaultMemoryCheckInterval = time.Minute
	// DefaultIdleThreshold is how long a workspace must be unused before it
	// is compressed.
	DefaultIdleThreshold = 5 * time.Minute
)

// Suspendable is what the memory manager compresses and restores.
type Suspendable interface {
	Suspend(ctx context.Context) map[entity.ContextID]string
	Resume(ctx context.Context) int
}

// MemoryConfig tunes the memory manager.
type MemoryConfig struct {
	Enabled       bool
	CheckInterval time.Duration
	IdleThreshold time.Duration
}

func (c MemoryConfig) withDefaults() MemoryConfig {
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultMemoryCheckInterval
	}
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}
	return c
}

// MemoryStats summarizes compression state for display.
type MemoryStats struct {
	Compressed []entity.WorkspaceID
	Active     entity.WorkspaceID
	IdleFor    map[entity.WorkspaceID]time.Duration
}

// MemoryManager unloads workspaces that sit idle and reloads them when the
// user comes back. The active workspace is never compressed. State is kept
// in memory only. It must only be used from the event loop.
type MemoryManager struct {
	scheduler port.Scheduler
	publisher port.EventPublisher
	cfg       MemoryConfig

	states  map[entity.WorkspaceID]*entity.MemoryState
	targets map[entity.WorkspaceID]Suspendable
	active  entity.WorkspaceID
	ticker  port.Timer
}

// NewMemoryManager creates a manager reading time from scheduler.
func NewMemoryManager(scheduler port.Scheduler, publisher port.EventPublisher, cfg MemoryConfig) *MemoryManager {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	return &MemoryManager{
		scheduler: scheduler,
		publisher: publisher,
		cfg:       cfg.withDefaults(),
		states:    make(map[entity.WorkspaceID]*entity.MemoryState),
		targets:   make(map[entity.WorkspaceID]Suspendable),
	}
}

// Register starts tracking a workspace as freshly used and uncompressed.
func (m *MemoryManager) Register(id entity.WorkspaceID, target Suspendable) {
	m.targets[id] = target
	m.states[id] = &entity.MemoryState{LastUsed: m.scheduler.Now()}
}

// Start arms the periodic check.
func (m *MemoryManager) Start(ctx context.Context) {
	log := logging.FromContext(ctx)
	if !m.cfg.Enabled {
		log.Debug().Msg("memory manager disabled")
		return
	}
	if m.ticker != nil {
		m.ticker.Stop()
	}
	m.ticker = m.scheduler.Every(m.cfg.CheckInterval, func() {
		m.Tick(ctx)
	})
	log.Debug().
		Dur("interval", m.cfg.CheckInterval).
		Dur("idle_threshold", m.cfg.IdleThreshold).
		Msg("memory manager started")
}

// Stop disarms the periodic check.
func (m *MemoryManager) Stop() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
}

// Reconfigure applies new settings, re-arming the ticker when running.
func (m *MemoryManager) Reconfigure(ctx context.Context, cfg MemoryConfig) {
	running := m.ticker != nil
	m.Stop()
	m.cfg = cfg.withDefaults()
	if running || m.cfg.Enabled {
		m.Start(ctx)
	}
}

// Touch resets the idle timer of a workspace.
func (m *MemoryManager) Touch(id entity.WorkspaceID) {
	if st, ok := m.states[id]; ok {
		st.LastUsed = m.scheduler.Now()
	}
}

// TouchTab resets the idle timer of a workspace on behalf of one of its tabs.
func (m *MemoryManager) TouchTab(id entity.WorkspaceID, _ entity.ContextID) {
	m.Touch(id)
}

// Activate marks id as the active workspace. The workspace left behind
// starts its idle window now. A compressed workspace is restored exactly
// once; the return value reports whether that happened.
func (m *MemoryManager) Activate(ctx context.Context, id entity.WorkspaceID) bool {
	if prev := m.active; prev != id {
		m.Touch(prev)
	}
	m.active = id
	m.Touch(id)

	st, ok := m.states[id]
	if !ok || !st.Compressed {
		return false
	}

	reloaded := 0
	if target := m.targets[id]; target != nil {
		reloaded = target.Resume(ctx)
	}
	st.Compressed = false
	st.SavedURLs = nil

	logging.FromContext(ctx).Info().
		Int("workspace_id", int(id)).
		Int("tabs", reloaded).
		Msg("workspace restored from compression")
	m.publisher.Publish(entity.Event{Name: entity.EventWorkspaceRestored, WorkspaceID: id})
	return true
}

// Tick compresses every idle, inactive, uncompressed workspace and returns
// the ids it compressed.
func (m *MemoryManager) Tick(ctx context.Context) []entity.WorkspaceID {
	now := m.scheduler.Now()
	var compressed []entity.WorkspaceID

	for _, id := range m.sortedIDs() {
		st := m.states[id]
		if id == m.active || st.Compressed || st.IdleFor(now) <= m.cfg.IdleThreshold {
			continue
		}
		target := m.targets[id]
		if target == nil {
			continue
		}
		st.SavedURLs = target.Suspend(ctx)
		st.Compressed = true
		compressed = append(compressed, id)

		logging.FromContext(ctx).Info().
			Int("workspace_id", int(id)).
			Int("tabs", len(st.SavedURLs)).
			Dur("idle", st.IdleFor(now)).
			Msg("workspace compressed")
		m.publisher.Publish(entity.Event{Name: entity.EventWorkspaceCompressed, WorkspaceID: id})
	}
	return compressed
}

// IsCompressed reports whether id is compressed.
func (m *MemoryManager) IsCompressed(id entity.WorkspaceID) bool {
	st, ok := m.states[id]
	return ok && st.Compressed
}

// Stats returns a summary of every tracked workspace.
func (m *MemoryManager) Stats() MemoryStats {
	now := m.scheduler.Now()
	stats := MemoryStats{Active: m.active, IdleFor: make(map[entity.WorkspaceID]time.Duration, len(m.states))}
	for _, id := range m.sortedIDs() {
		st := m.states[id]
		stats.IdleFor[id] = st.IdleFor(now)
		if st.Compressed {
			stats.Compressed = append(stats.Compressed, id)
		}
	}
	return stats
}

func (m *MemoryManager) sortedIDs() []entity.WorkspaceID {
	ids := make([]entity.WorkspaceID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
