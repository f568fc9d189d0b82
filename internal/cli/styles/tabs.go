package styles

import "strings"

// maxTabLabel bounds a single tab label in runes.
const maxTabLabel = 24

// TabsModel is the tab strip of one workspace.
type TabsModel struct {
	Labels []string
	Active int
	// Dimmed renders every tab muted, e.g. for an unloaded workspace.
	Dimmed bool
	theme  *Theme
}

// NewTabs creates a tab strip with the given labels.
func NewTabs(theme *Theme, labels ...string) TabsModel {
	return TabsModel{Labels: labels, theme: theme}
}

// SetActive marks index as the active tab. Out of range values are ignored.
func (m *TabsModel) SetActive(index int) {
	if index >= 0 && index < len(m.Labels) {
		m.Active = index
	}
}

// View renders the strip at width. Labels are shortened so that more tabs
// fit before the bar wraps.
func (m TabsModel) View(width int) string {
	limit := maxTabLabel
	if n := len(m.Labels); n > 0 && width > 0 {
		// 2x2 padding plus the separator
		limit = min(limit, max(width/n-7, 6))
	}

	parts := make([]string, 0, len(m.Labels))
	for i, label := range m.Labels {
		style := m.theme.InactiveTab
		if i == m.Active && !m.Dimmed {
			style = m.theme.ActiveTab
		}
		parts = append(parts, style.Render(truncate(label, limit)))
	}

	bar := m.theme.TabBar
	if width > 0 {
		bar = bar.Width(width)
	}
	return bar.Render(strings.Join(parts, m.theme.TabGap.Render(" │ ")))
}
