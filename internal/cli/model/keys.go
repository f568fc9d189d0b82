// Package model provides Bubble Tea models for CLI commands.
package model

import "github.com/charmbracelet/bubbles/key"

// shellKeyMap defines keybindings for the shell front-end. They follow the
// desktop shortcuts where a terminal can express them.
type shellKeyMap struct {
	NewTab      key.Binding
	CloseTab    key.Binding
	RestoreTab  key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Reload      key.Binding
	Back        key.Binding
	Forward     key.Binding
	Open        key.Binding
	CopyURL     key.Binding
	ToggleNotes key.Binding
	EditNote    key.Binding
	Rename      key.Binding
	Workspace1  key.Binding
	Workspace2  key.Binding
	Workspace3  key.Binding
	Workspace4  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k shellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTab, k.CloseTab, k.NextTab, k.Open, k.ToggleNotes, k.Workspace1, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k shellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewTab, k.CloseTab, k.RestoreTab, k.NextTab, k.PrevTab},
		{k.Open, k.CopyURL, k.Reload, k.Back, k.Forward},
		{k.ToggleNotes, k.EditNote, k.Rename},
		{k.Workspace1, k.Workspace2, k.Workspace3, k.Workspace4},
		{k.Help, k.Quit},
	}
}

func defaultShellKeyMap() shellKeyMap {
	return shellKeyMap{
		NewTab: key.NewBinding(
			key.WithKeys("ctrl+t", "t"),
			key.WithHelp("ctrl+t", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w", "x"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		RestoreTab: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "reopen closed tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r", "r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left", "H"),
			key.WithHelp("alt+←", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right", "L"),
			key.WithHelp("alt+→", "forward"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "ctrl+l"),
			key.WithHelp("o", "open url"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		ToggleNotes: key.NewBinding(
			key.WithKeys("ctrl+k", "K"),
			key.WithHelp("ctrl+k", "notes"),
		),
		EditNote: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit note"),
		),
		Rename: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "rename workspace"),
		),
		Workspace1: key.NewBinding(
			key.WithKeys("alt+1", "f1"),
			key.WithHelp("alt+1..4", "workspace"),
		),
		Workspace2: key.NewBinding(key.WithKeys("alt+2", "f2")),
		Workspace3: key.NewBinding(key.WithKeys("alt+3", "f3")),
		Workspace4: key.NewBinding(key.WithKeys("alt+4", "f4")),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
