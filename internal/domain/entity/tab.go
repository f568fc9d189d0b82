package entity

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContextID identifies one live browsing context. Engine events carry it so
// they can be routed to the owning tab without relying on positions.
type ContextID string

// NewContextID returns a fresh random context identity.
func NewContextID() ContextID {
	return ContextID(uuid.NewString())
}

// TitleDisplayLimit is the number of characters kept before a title is
// cut and suffixed with an ellipsis.
const TitleDisplayLimit = 30

// DefaultTabTitle is shown until the page reports a title.
const DefaultTabTitle = "New Tab"

// Tab is one browsing context inside a workspace.
type Tab struct {
	ID       ContextID
	URL      string
	Title    string
	Position int
}

// DisplayTitle returns the truncated title, falling back to the URL.
func (t *Tab) DisplayTitle() string {
	switch {
	case t.Title != "":
		return TruncateTitle(t.Title)
	case t.URL != "":
		return TruncateTitle(t.URL)
	default:
		return DefaultTabTitle
	}
}

// TruncateTitle cuts s to TitleDisplayLimit characters and appends "...".
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= TitleDisplayLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:TitleDisplayLimit]) + "..."
}

// TabList manages an ordered collection of tabs and the active position.
type TabList struct {
	Tabs   []*Tab
	Active int
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		Tabs: make([]*Tab, 0),
	}
}

// Add appends a tab to the list and returns its index.
func (tl *TabList) Add(tab *Tab) int {
	tab.Position = len(tl.Tabs)
	tl.Tabs = append(tl.Tabs, tab)
	return tab.Position
}

// RemoveAt removes the tab at index and reindexes positions.
// The active index keeps pointing at the same tab when it survives; when the
// active tab itself is removed, the tab that slid into its slot becomes
// active, or the new last tab.
func (tl *TabList) RemoveAt(index int) (*Tab, bool) {
	if index < 0 || index >= len(tl.Tabs) {
		return nil, false
	}
	removed := tl.Tabs[index]
	tl.Tabs = append(tl.Tabs[:index], tl.Tabs[index+1:]...)
	for j := index; j < len(tl.Tabs); j++ {
		tl.Tabs[j].Position = j
	}

	switch {
	case len(tl.Tabs) == 0:
		tl.Active = 0
	case index < tl.Active:
		tl.Active--
	case tl.Active >= len(tl.Tabs):
		tl.Active = len(tl.Tabs) - 1
	}
	return removed, true
}

// IndexOf returns the position of the tab with the given context id, or -1.
func (tl *TabList) IndexOf(id ContextID) int {
	for i, tab := range tl.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// Find returns a tab by context id.
func (tl *TabList) Find(id ContextID) *Tab {
	if i := tl.IndexOf(id); i >= 0 {
		return tl.Tabs[i]
	}
	return nil
}

// At returns the tab at index or nil.
func (tl *TabList) At(index int) *Tab {
	if index < 0 || index >= len(tl.Tabs) {
		return nil
	}
	return tl.Tabs[index]
}

// ActiveTab returns the currently active tab.
func (tl *TabList) ActiveTab() *Tab {
	return tl.At(tl.Active)
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}

// ClosedTab is what remains of a tab after it is closed.
type ClosedTab struct {
	URL   string
	Title string
}

// ClosedStack is a bounded LIFO of closed tabs. Pushing past the limit
// evicts the oldest entry.
type ClosedStack struct {
	items []ClosedTab
	limit int
}

// NewClosedStack creates a stack holding at most limit entries.
func NewClosedStack(limit int) *ClosedStack {
	if limit < 1 {
		limit = 1
	}
	return &ClosedStack{limit: limit}
}

// Push records a closed tab.
func (s *ClosedStack) Push(tab ClosedTab) {
	s.items = append(s.items, tab)
	if over := len(s.items) - s.limit; over > 0 {
		s.items = append(s.items[:0], s.items[over:]...)
	}
}

// Pop removes and returns the most recently closed tab.
func (s *ClosedStack) Pop() (ClosedTab, bool) {
	if len(s.items) == 0 {
		return ClosedTab{}, false
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last, true
}

// Len returns the number of entries.
func (s *ClosedStack) Len() int {
	return len(s.items)
}

// Items returns a copy ordered oldest first.
func (s *ClosedStack) Items() []ClosedTab {
	out := make([]ClosedTab, len(s.items))
	copy(out, s.items)
	return out
}
