// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of the rendering engine and the front-end.
package port

import (
	"context"

	"github.com/bnema/siteshell/internal/domain/entity"
)

// BrowsingContext is one live page owned by a tab.
// Navigation calls return once the request is issued; progress arrives
// through EngineEvents.
type BrowsingContext interface {
	ID() entity.ContextID
	Load(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Reload(ctx context.Context) error
	Close(ctx context.Context) error
}

// EngineEvents receives engine callbacks for one workspace. Methods may be
// called from engine goroutines.
type EngineEvents interface {
	TitleChanged(id entity.ContextID, title string)
	URLChanged(id entity.ContextID, url string)
	LoadFinished(id entity.ContextID, ok bool)

	// AcceptNavigation must answer synchronously whether the engine may
	// proceed with the navigation.
	AcceptNavigation(id entity.ContextID, url string, topLevel bool) bool
}

// Profile is the isolated storage profile of one workspace. Contexts created
// from different profiles never share cookies or storage.
type Profile interface {
	WorkspaceID() entity.WorkspaceID
	// NewContext creates an empty context. The caller loads the first URL.
	NewContext(ctx context.Context) (BrowsingContext, error)
	Close(ctx context.Context) error
}

// Engine opens per-workspace profiles.
type Engine interface {
	OpenProfile(ctx context.Context, id entity.WorkspaceID, dir string, events EngineEvents) (Profile, error)
	Close(ctx context.Context) error
}
