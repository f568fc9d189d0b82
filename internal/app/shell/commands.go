package shell

import (
	"context"

	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// CurrentWorkspace returns the id of the visible workspace.
func (s *Shell) CurrentWorkspace() entity.WorkspaceID { return s.current }

// Workspace returns the controller of id, or nil.
func (s *Shell) Workspace(id entity.WorkspaceID) *usecase.WorkspaceController {
	if !id.Valid() {
		return nil
	}
	return s.workspaces[id]
}

// Memory exposes the memory manager for status display.
func (s *Shell) Memory() *usecase.MemoryManager { return s.memory }

func (s *Shell) active() (*usecase.WorkspaceController, error) {
	if !s.running {
		return nil, ErrNotStarted
	}
	s.memory.Touch(s.current)
	return s.workspaces[s.current], nil
}

// SwitchWorkspace makes id the visible workspace. A compressed workspace
// reloads its pages; switching to the current workspace does nothing.
func (s *Shell) SwitchWorkspace(ctx context.Context, id entity.WorkspaceID) error {
	if !s.running {
		return ErrNotStarted
	}
	if !id.Valid() {
		return ErrInvalidWorkspace
	}
	if id == s.current {
		return nil
	}

	prev := s.current
	s.current = id
	restored := s.memory.Activate(ctx, id)
	s.workspaces[id].Tabs().Reattach(ctx)

	logging.FromContext(ctx).Debug().
		Int("from", int(prev)).
		Int("to", int(id)).
		Bool("restored", restored).
		Msg("workspace switched")
	s.dispatcher.Publish(entity.Event{Name: entity.EventWorkspaceSwitched, WorkspaceID: id, Index: int(prev)})
	return nil
}

// NewTab opens a tab in the current workspace. An empty URL opens the
// default site.
func (s *Shell) NewTab(ctx context.Context, rawURL string) (int, error) {
	ws, err := s.active()
	if err != nil {
		return -1, err
	}
	return ws.Tabs().Open(ctx, rawURL), nil
}

// CloseTab closes the tab at index. The last tab of a workspace stays.
func (s *Shell) CloseTab(ctx context.Context, index int) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.Tabs().Close(ctx, index), nil
}

// CloseCurrentTab closes the active tab.
func (s *Shell) CloseCurrentTab(ctx context.Context) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.Tabs().CloseActive(ctx), nil
}

// RestoreLastClosed reopens the most recently closed tab.
func (s *Shell) RestoreLastClosed(ctx context.Context) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	_, ok := ws.Tabs().RestoreLastClosed(ctx)
	return ok, nil
}

// SelectTab activates the tab at index.
func (s *Shell) SelectTab(ctx context.Context, index int) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.Tabs().SetActive(ctx, index), nil
}

// NextTab activates the next tab, wrapping around.
func (s *Shell) NextTab(ctx context.Context) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	ws.Tabs().Next(ctx)
	return nil
}

// PreviousTab activates the previous tab, wrapping around.
func (s *Shell) PreviousTab(ctx context.Context) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	ws.Tabs().Previous(ctx)
	return nil
}

// Navigate loads rawURL in the active tab.
func (s *Shell) Navigate(ctx context.Context, rawURL string) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	return ws.Tabs().Navigate(ctx, rawURL)
}

// Reload reloads the active tab of the current workspace.
func (s *Shell) Reload(ctx context.Context) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	return ws.Tabs().Reload(ctx)
}

// Back goes back in the active tab's history.
func (s *Shell) Back(ctx context.Context) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	return ws.Tabs().Back(ctx)
}

// Forward goes forward in the active tab's history.
func (s *Shell) Forward(ctx context.Context) error {
	ws, err := s.active()
	if err != nil {
		return err
	}
	return ws.Tabs().Forward(ctx)
}

// RenameWorkspace renames the current workspace.
func (s *Shell) RenameWorkspace(ctx context.Context, name string) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.Rename(ctx, name), nil
}

// ToggleNotePanel shows or hides the note panel of the current workspace.
func (s *Shell) ToggleNotePanel(ctx context.Context) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.ToggleNotePanel(ctx), nil
}

// SetNoteContent replaces the note of the current workspace.
func (s *Shell) SetNoteContent(ctx context.Context, content string) (bool, error) {
	ws, err := s.active()
	if err != nil {
		return false, err
	}
	return ws.SetNoteContent(ctx, content), nil
}
