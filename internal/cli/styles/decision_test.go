package styles

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/siteshell/internal/domain/entity"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDecision_DefaultsToCancel(t *testing.T) {
	m := NewDecision(NewTheme(), "docs.python.org", "https://docs.python.org/3/")
	assert.False(t, m.Done())
	assert.Equal(t, entity.DomainDecisionCancel, m.Result())

	m, _ = m.Update(keyMsg("enter"))
	assert.True(t, m.Done())
	assert.Equal(t, entity.DomainDecisionCancel, m.Result())
}

func TestDecision_Shortcuts(t *testing.T) {
	tests := []struct {
		key  string
		want entity.DomainDecision
	}{
		{"o", entity.DomainDecisionAllowOnce},
		{"a", entity.DomainDecisionAlwaysAllow},
		{"esc", entity.DomainDecisionCancel},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewDecision(NewTheme(), "example.com", "https://example.com")
			m, _ = m.Update(keyMsg(tt.key))
			assert.True(t, m.Done())
			assert.Equal(t, tt.want, m.Result())
		})
	}
}

func TestDecision_ArrowsCycleAndEnterConfirms(t *testing.T) {
	m := NewDecision(NewTheme(), "example.com", "https://example.com")

	m, _ = m.Update(keyMsg("right"))
	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, entity.DomainDecisionAlwaysAllow, m.Selected)
	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, entity.DomainDecisionCancel, m.Selected, "wraps around")
	m, _ = m.Update(keyMsg("left"))
	assert.Equal(t, entity.DomainDecisionAlwaysAllow, m.Selected)
	m, _ = m.Update(keyMsg("left"))

	m, _ = m.Update(keyMsg("enter"))
	assert.Equal(t, entity.DomainDecisionAllowOnce, m.Result())

	m, _ = m.Update(keyMsg("a"))
	assert.Equal(t, entity.DomainDecisionAllowOnce, m.Result(), "answered dialogs ignore keys")
}

func TestDecision_ViewShowsHost(t *testing.T) {
	m := NewDecision(NewTheme(), "docs.python.org", "https://docs.python.org/3/library/index.html")
	view := m.View()
	assert.Contains(t, view, "docs.python.org")
	assert.Contains(t, view, "Always allow")
}
