package entity

// SessionSnapshot maps every workspace id to its persisted state.
type SessionSnapshot map[WorkspaceID]*WorkspaceSnapshot

// DefaultSession returns default workspaces for every id.
func DefaultSession(defaultURL string) SessionSnapshot {
	s := make(SessionSnapshot, WorkspaceCount)
	for _, id := range AllWorkspaceIDs() {
		s[id] = DefaultWorkspace(id, defaultURL)
	}
	return s
}

// Backfill inserts defaults for missing ids, drops out-of-range ids and
// normalizes what remains. It returns the ids that were filled in.
func (s SessionSnapshot) Backfill(defaultURL string) []WorkspaceID {
	for id := range s {
		if !id.Valid() {
			delete(s, id)
		}
	}

	var filled []WorkspaceID
	for _, id := range AllWorkspaceIDs() {
		ws, ok := s[id]
		if !ok || ws == nil {
			s[id] = DefaultWorkspace(id, defaultURL)
			filled = append(filled, id)
			continue
		}
		ws.ID = id
		ws.Normalize(defaultURL)
	}
	return filled
}

// Clone returns a deep copy.
func (s SessionSnapshot) Clone() SessionSnapshot {
	c := make(SessionSnapshot, len(s))
	for id, ws := range s {
		c[id] = ws.Clone()
	}
	return c
}

// TabCount returns the total number of tabs across workspaces.
func (s SessionSnapshot) TabCount() int {
	n := 0
	for _, ws := range s {
		if ws != nil {
			n += len(ws.Tabs)
		}
	}
	return n
}
