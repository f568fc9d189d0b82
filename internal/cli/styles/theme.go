// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of base colors a Theme is derived from.
type Palette struct {
	Background string
	Surface    string
	Raised     string
	Text       string
	Muted      string
	Accent     string
	Border     string
	Error      string
	Warning    string
}

// DefaultDarkPalette returns the dark palette.
func DefaultDarkPalette() Palette {
	return Palette{
		Background: "#0d0d0d",
		Surface:    "#171717",
		Raised:     "#262626",
		Text:       "#ececec",
		Muted:      "#8e8e8e",
		Accent:     "#10a37f",
		Border:     "#303030",
		Error:      "#ef4444",
		Warning:    "#f59e0b",
	}
}

// Theme holds the styles of every siteshell view.
type Theme struct {
	// text
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	Tag          lipgloss.Style

	// workspace bar
	WorkspaceCurrent lipgloss.Style
	WorkspaceOther   lipgloss.Style

	// tab strip
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabBar      lipgloss.Style
	TabGap      lipgloss.Style

	// note panel
	NotePanel  lipgloss.Style
	NoteHeader lipgloss.Style

	// domain dialog
	Dialog        lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewTheme creates the default dark theme.
func NewTheme() *Theme {
	return NewThemeFromPalette(DefaultDarkPalette())
}

// NewThemeFromPalette derives every style from p.
func NewThemeFromPalette(p Palette) *Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	fg := func(hex string) lipgloss.Style { return lipgloss.NewStyle().Foreground(c(hex)) }

	t := &Theme{}

	t.Title = fg(p.Text).Bold(true)
	t.Subtitle = fg(p.Muted).Bold(true)
	t.Normal = fg(p.Text)
	t.Subtle = fg(p.Muted)
	t.Highlight = fg(p.Accent).Bold(true)
	t.ErrorStyle = fg(p.Error)
	t.WarningStyle = fg(p.Warning)
	t.SuccessStyle = fg(p.Accent)
	t.Tag = fg(p.Text).Background(c(p.Raised)).Padding(0, 1)

	t.WorkspaceCurrent = fg(p.Background).Background(c(p.Accent)).Padding(0, 1).Bold(true)
	t.WorkspaceOther = fg(p.Muted).Background(c(p.Surface)).Padding(0, 1)

	t.ActiveTab = fg(p.Text).Background(c(p.Raised)).Padding(0, 2).Bold(true)
	t.InactiveTab = fg(p.Muted).Background(c(p.Surface)).Padding(0, 2)
	t.TabBar = lipgloss.NewStyle().
		Background(c(p.Surface)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(c(p.Border))
	t.TabGap = fg(p.Border).Background(c(p.Surface))

	t.NotePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(p.Border)).
		Padding(0, 1)
	t.NoteHeader = fg(p.Accent).Bold(true).MarginBottom(1)

	t.Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(p.Warning)).
		Padding(1, 3)
	t.Button = fg(p.Muted).Background(c(p.Surface))
	t.ButtonFocused = fg(p.Background).Background(c(p.Accent)).Bold(true)

	t.HelpKey = fg(p.Accent)
	t.HelpDesc = fg(p.Muted)
	return t
}
