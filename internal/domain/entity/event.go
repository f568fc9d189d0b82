package entity

// EventName names a domain event.
type EventName string

const (
	EventTabOpened           EventName = "tab.opened"
	EventTabClosed           EventName = "tab.closed"
	EventTabActivated        EventName = "tab.activated"
	EventTabUpdated          EventName = "tab.updated"
	EventNavigationRequested EventName = "navigation.requested"
	EventWorkspaceSwitched   EventName = "workspace.switched"
	EventWorkspaceRenamed    EventName = "workspace.renamed"
	EventWorkspaceCompressed EventName = "workspace.compressed"
	EventWorkspaceRestored   EventName = "workspace.restored"
	EventNoteChanged         EventName = "note.changed"
	EventNotePanelToggled    EventName = "note.panel_toggled"
	EventSessionChanged      EventName = "session.changed"
	EventSessionSaved        EventName = "session.saved"
	EventAllowlistChanged    EventName = "allowlist.changed"
)

// Event is one domain event. Only the fields relevant to Name are set.
type Event struct {
	Name        EventName
	WorkspaceID WorkspaceID
	ContextID   ContextID
	Index       int
	URL         string
	Title       string
	Action      NavigationAction
}

// Structural reports whether the event changes persisted session data.
func (e Event) Structural() bool {
	switch e.Name {
	case EventTabOpened, EventTabClosed, EventTabActivated, EventTabUpdated,
		EventWorkspaceRenamed, EventNotePanelToggled:
		return true
	default:
		return false
	}
}
