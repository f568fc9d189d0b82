package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/siteshell/internal/app/shell"
)

// RenderWorkspaceBar renders the four workspace switches with the current
// one highlighted and unloaded ones marked.
func RenderWorkspaceBar(t *Theme, view shell.View) string {
	parts := make([]string, 0, len(view.Workspaces))
	for _, ws := range view.Workspaces {
		label := fmt.Sprintf("%d %s", int(ws.ID)+1, ws.Name)
		if ws.Compressed {
			label += " " + IconSleep
		}
		style := t.WorkspaceOther
		if ws.Current {
			style = t.WorkspaceCurrent
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, " ")
}

// RenderWorkspace renders the tab strip and the active page of ws.
func RenderWorkspace(t *Theme, ws shell.WorkspaceView, width int) string {
	labels := make([]string, len(ws.Tabs))
	for i, tab := range ws.Tabs {
		labels[i] = tab.Title
	}
	bar := NewTabs(t, labels...)
	bar.SetActive(ws.ActiveTab)
	bar.Dimmed = ws.Compressed

	var b strings.Builder
	b.WriteString(bar.View(width))
	b.WriteString("\n")

	if ws.ActiveTab >= 0 && ws.ActiveTab < len(ws.Tabs) {
		active := ws.Tabs[ws.ActiveTab]
		b.WriteString(t.Subtle.Render(IconGlobe + " "))
		b.WriteString(t.Normal.Render(active.URL))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderNotePanel renders the workspace note. Empty notes show a hint.
func RenderNotePanel(t *Theme, ws shell.WorkspaceView, width int) string {
	body := ws.NoteContent
	if strings.TrimSpace(body) == "" {
		body = t.Subtle.Render("empty note, press e to edit")
	}
	box := t.NotePanel
	if width > 0 {
		box = box.Width(width)
	}
	header := t.NoteHeader.Render(IconNote + " Notes: " + ws.Name)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}
