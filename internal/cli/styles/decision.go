package styles

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/siteshell/internal/domain/entity"
)

// DecisionModel asks what to do about a navigation to an unknown domain.
type DecisionModel struct {
	Host     string
	URL      string
	Selected entity.DomainDecision
	done     bool
	theme    *Theme
}

// DecisionKeyMap defines keybindings for the domain decision dialog.
type DecisionKeyMap struct {
	Once    key.Binding
	Always  key.Binding
	Cancel  key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
}

// DefaultDecisionKeyMap returns the default keybindings.
func DefaultDecisionKeyMap() DecisionKeyMap {
	return DecisionKeyMap{
		Once:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "allow once")),
		Always:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "always allow")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
		Left:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "previous")),
		Right:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	}
}

// decisionOrder is the left-to-right button order.
var decisionOrder = []entity.DomainDecision{
	entity.DomainDecisionCancel,
	entity.DomainDecisionAllowOnce,
	entity.DomainDecisionAlwaysAllow,
}

// NewDecision creates the dialog with Cancel preselected.
func NewDecision(theme *Theme, host, url string) DecisionModel {
	return DecisionModel{
		Host:     host,
		URL:      url,
		Selected: entity.DomainDecisionCancel,
		theme:    theme,
	}
}

// Update implements the tea update step.
func (m DecisionModel) Update(msg tea.Msg) (DecisionModel, tea.Cmd) {
	keys := DefaultDecisionKeyMap()

	k, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}
	switch {
	case key.Matches(k, keys.Once):
		m.Selected, m.done = entity.DomainDecisionAllowOnce, true
	case key.Matches(k, keys.Always):
		m.Selected, m.done = entity.DomainDecisionAlwaysAllow, true
	case key.Matches(k, keys.Cancel):
		m.Selected, m.done = entity.DomainDecisionCancel, true
	case key.Matches(k, keys.Left):
		m.Selected = decisionOrder[(m.position()+len(decisionOrder)-1)%len(decisionOrder)]
	case key.Matches(k, keys.Right):
		m.Selected = decisionOrder[(m.position()+1)%len(decisionOrder)]
	case key.Matches(k, keys.Confirm):
		m.done = true
	}
	return m, nil
}

func (m DecisionModel) position() int {
	for i, d := range decisionOrder {
		if d == m.Selected {
			return i
		}
	}
	return 0
}

// Done reports whether the user answered.
func (m DecisionModel) Done() bool { return m.done }

// Result returns the chosen decision. It is Cancel until Done.
func (m DecisionModel) Result() entity.DomainDecision {
	if !m.done {
		return entity.DomainDecisionCancel
	}
	return m.Selected
}

// View renders the dialog.
func (m DecisionModel) View() string {
	t := m.theme

	labels := map[entity.DomainDecision]string{
		entity.DomainDecisionCancel:      " Cancel ",
		entity.DomainDecisionAllowOnce:   " Allow once ",
		entity.DomainDecisionAlwaysAllow: " Always allow ",
	}
	buttons := make([]string, 0, len(decisionOrder)*2)
	for i, d := range decisionOrder {
		style := t.Button
		if d == m.Selected {
			style = t.ButtonFocused
		}
		if i > 0 {
			buttons = append(buttons, "  ")
		}
		buttons = append(buttons, style.Render(labels[d]))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		t.WarningStyle.Render(IconShield+" Unknown domain"),
		"",
		t.Title.Render(m.Host),
		t.Subtle.Render(truncate(m.URL, 60)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
		"",
		t.Subtle.Render("o allow once • a always allow • esc cancel"),
	)
	return t.Dialog.Render(content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
