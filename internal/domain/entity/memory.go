package entity

import "time"

// MemoryState tracks idle suspension for one workspace. It lives only in
// memory; every workspace starts active on process start.
type MemoryState struct {
	LastUsed   time.Time
	Compressed bool
	// SavedURLs holds each tab's URL, by context, while compressed.
	SavedURLs map[ContextID]string
}

// IdleFor reports how long the workspace has not been used.
func (m *MemoryState) IdleFor(now time.Time) time.Duration {
	return now.Sub(m.LastUsed)
}
