package usecase

import (
	"context"
	"strings"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// WorkspaceController owns one workspace: its tabs, its name and its note
// panel. It must only be used from the event loop.
type WorkspaceController struct {
	id        entity.WorkspaceID
	name      string
	tabs      *TabController
	publisher port.EventPublisher

	noteContent      string
	notePanelVisible bool
}

// NewWorkspaceController wraps tabs, which must belong to the same workspace.
func NewWorkspaceController(id entity.WorkspaceID, tabs *TabController, publisher port.EventPublisher) *WorkspaceController {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	return &WorkspaceController{
		id:        id,
		name:      id.DefaultName(),
		tabs:      tabs,
		publisher: publisher,
	}
}

// ID returns the workspace id.
func (w *WorkspaceController) ID() entity.WorkspaceID { return w.id }

// Name returns the display name.
func (w *WorkspaceController) Name() string { return w.name }

// Tabs returns the tab controller.
func (w *WorkspaceController) Tabs() *TabController { return w.tabs }

// NoteContent returns the note text.
func (w *WorkspaceController) NoteContent() string { return w.noteContent }

// NotePanelVisible reports whether the note panel is shown.
func (w *WorkspaceController) NotePanelVisible() bool { return w.notePanelVisible }

// Snapshot materializes the live state for persistence.
func (w *WorkspaceController) Snapshot() *entity.WorkspaceSnapshot {
	tabs := w.tabs.Tabs()
	snaps := make([]entity.TabSnapshot, 0, len(tabs))
	for _, tab := range tabs {
		snaps = append(snaps, entity.TabSnapshot{URL: tab.URL, Title: entity.TruncateTitle(tab.Title)})
	}
	return &entity.WorkspaceSnapshot{
		ID:               w.id,
		Name:             w.name,
		Tabs:             snaps,
		ActiveTabIndex:   w.tabs.ActiveIndex(),
		NoteContent:      w.noteContent,
		NotePanelVisible: w.notePanelVisible,
	}
}

// Restore replays snap: one tab per stored tab (at least one), the active
// index clamped into range, the note content and the panel flag.
func (w *WorkspaceController) Restore(ctx context.Context, snap *entity.WorkspaceSnapshot) {
	log := logging.FromContext(ctx)

	if snap == nil {
		log.Warn().Int("workspace_id", int(w.id)).Msg("restore called without snapshot")
		return
	}
	if name := strings.TrimSpace(snap.Name); name != "" {
		w.name = name
	}
	w.tabs.Replace(ctx, snap.Tabs, snap.ActiveTabIndex)
	w.noteContent = snap.NoteContent
	w.notePanelVisible = snap.NotePanelVisible

	log.Debug().
		Int("workspace_id", int(w.id)).
		Str("name", w.name).
		Int("tab_count", w.tabs.Count()).
		Int("active_tab", w.tabs.ActiveIndex()).
		Msg("workspace restored")
}

// Rename changes the display name. Blank names are rejected; names need not
// be unique.
func (w *WorkspaceController) Rename(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == w.name {
		return false
	}
	logging.FromContext(ctx).Info().
		Int("workspace_id", int(w.id)).
		Str("from", w.name).
		Str("to", name).
		Msg("workspace renamed")

	w.name = name
	w.publisher.Publish(entity.Event{Name: entity.EventWorkspaceRenamed, WorkspaceID: w.id, Title: name})
	return true
}

// SetNoteContent replaces the note text. It reports whether it changed.
func (w *WorkspaceController) SetNoteContent(_ context.Context, content string) bool {
	if content == w.noteContent {
		return false
	}
	w.noteContent = content
	w.publisher.Publish(entity.Event{Name: entity.EventNoteChanged, WorkspaceID: w.id})
	return true
}

// ToggleNotePanel flips panel visibility and returns the new state.
func (w *WorkspaceController) ToggleNotePanel(ctx context.Context) bool {
	w.SetNotePanelVisible(ctx, !w.notePanelVisible)
	return w.notePanelVisible
}

// SetNotePanelVisible shows or hides the note panel.
func (w *WorkspaceController) SetNotePanelVisible(_ context.Context, visible bool) {
	if visible == w.notePanelVisible {
		return
	}
	w.notePanelVisible = visible
	w.publisher.Publish(entity.Event{Name: entity.EventNotePanelToggled, WorkspaceID: w.id})
}

// Suspend unloads the workspace's tabs.
func (w *WorkspaceController) Suspend(ctx context.Context) map[entity.ContextID]string {
	return w.tabs.Suspend(ctx)
}

// Resume reloads the workspace's tabs.
func (w *WorkspaceController) Resume(ctx context.Context) int {
	return w.tabs.Resume(ctx)
}

// Release closes every browsing context of the workspace.
func (w *WorkspaceController) Release(ctx context.Context) error {
	return w.tabs.Release(ctx)
}
