package entity

import (
	"fmt"
	"strings"
)

// WorkspaceID identifies one of the fixed workspaces.
type WorkspaceID int

// WorkspaceCount is the number of workspaces created at process start.
const WorkspaceCount = 4

// AllWorkspaceIDs returns ids 0..WorkspaceCount-1 in order.
func AllWorkspaceIDs() []WorkspaceID {
	ids := make([]WorkspaceID, WorkspaceCount)
	for i := range ids {
		ids[i] = WorkspaceID(i)
	}
	return ids
}

// Valid reports whether the id is in range.
func (id WorkspaceID) Valid() bool {
	return id >= 0 && id < WorkspaceCount
}

// DefaultName returns "Workspace {id+1}".
func (id WorkspaceID) DefaultName() string {
	return fmt.Sprintf("Workspace %d", int(id)+1)
}

// DirName is the per-workspace directory name under the data dir.
func (id WorkspaceID) DirName() string {
	return fmt.Sprintf("workspace_%d", int(id))
}

// TabSnapshot is the persisted form of a tab.
type TabSnapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// WorkspaceSnapshot is the persisted form of a workspace.
type WorkspaceSnapshot struct {
	ID               WorkspaceID   `json:"-"`
	Name             string        `json:"name"`
	Tabs             []TabSnapshot `json:"tabs"`
	ActiveTabIndex   int           `json:"active_tab"`
	NoteContent      string        `json:"-"`
	NotePanelVisible bool          `json:"notepad_visible"`
}

// DefaultWorkspace returns a workspace with a single tab on defaultURL, an
// empty note and the panel hidden.
func DefaultWorkspace(id WorkspaceID, defaultURL string) *WorkspaceSnapshot {
	return &WorkspaceSnapshot{
		ID:   id,
		Name: id.DefaultName(),
		Tabs: []TabSnapshot{{URL: defaultURL, Title: DefaultTabTitle}},
	}
}

// Normalize repairs a snapshot so that it satisfies the workspace
// invariants: a non-blank name, at least one tab and an in-range active index.
func (w *WorkspaceSnapshot) Normalize(defaultURL string) {
	if strings.TrimSpace(w.Name) == "" {
		w.Name = w.ID.DefaultName()
	}
	if len(w.Tabs) == 0 {
		w.Tabs = []TabSnapshot{{URL: defaultURL, Title: DefaultTabTitle}}
	}
	w.ActiveTabIndex = ClampIndex(w.ActiveTabIndex, len(w.Tabs))
}

// Clone returns a deep copy.
func (w *WorkspaceSnapshot) Clone() *WorkspaceSnapshot {
	if w == nil {
		return nil
	}
	c := *w
	c.Tabs = make([]TabSnapshot, len(w.Tabs))
	copy(c.Tabs, w.Tabs)
	return &c
}

// ClampIndex forces index into [0, n-1]; n < 1 yields 0.
func ClampIndex(index, n int) int {
	if n < 1 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
