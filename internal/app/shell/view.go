package shell

import (
	"github.com/bnema/siteshell/internal/domain/entity"
)

// TabView is a display copy of one tab.
type TabView struct {
	ContextID entity.ContextID
	Title     string
	URL       string
	Active    bool
}

// WorkspaceView is a display copy of one workspace.
type WorkspaceView struct {
	ID               entity.WorkspaceID
	Name             string
	Tabs             []TabView
	ActiveTab        int
	NoteContent      string
	NotePanelVisible bool
	Compressed       bool
	Current          bool
}

// View is a consistent copy of the shell state that front-ends can read
// off the loop.
type View struct {
	Current    entity.WorkspaceID
	Workspaces []WorkspaceView
	Domains    []string
	OAuthMode  entity.OAuthMode
}

// CurrentWorkspace returns the view of the visible workspace.
func (v View) CurrentWorkspace() WorkspaceView {
	for _, ws := range v.Workspaces {
		if ws.Current {
			return ws
		}
	}
	return WorkspaceView{}
}

// State builds a View. It must run on the loop.
func (s *Shell) State() View {
	v := View{
		Current:   s.current,
		Domains:   s.deps.Allowlist.Domains(),
		OAuthMode: s.guard.OAuthPolicy().Mode,
	}
	for _, ws := range s.workspaces {
		if ws == nil {
			continue
		}
		tabs := ws.Tabs()
		active := tabs.ActiveIndex()
		wv := WorkspaceView{
			ID:               ws.ID(),
			Name:             ws.Name(),
			ActiveTab:        active,
			NoteContent:      ws.NoteContent(),
			NotePanelVisible: ws.NotePanelVisible(),
			Compressed:       s.memory.IsCompressed(ws.ID()),
			Current:          ws.ID() == s.current,
		}
		for i, t := range tabs.Tabs() {
			wv.Tabs = append(wv.Tabs, TabView{
				ContextID: t.ID,
				Title:     t.DisplayTitle(),
				URL:       t.URL,
				Active:    i == active,
			})
		}
		v.Workspaces = append(v.Workspaces, wv)
	}
	return v
}
