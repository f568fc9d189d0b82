package repository

import (
	"context"

	"github.com/bnema/siteshell/internal/domain/entity"
)

// SaveStats describes what a Save actually wrote.
type SaveStats struct {
	SessionWritten bool
	NotesWritten   []entity.WorkspaceID
}

// Wrote reports whether anything reached the disk.
func (s SaveStats) Wrote() bool {
	return s.SessionWritten || len(s.NotesWritten) > 0
}

// SessionStateRepository persists the workspace snapshots and their notes.
type SessionStateRepository interface {
	// Load returns a snapshot holding every workspace id. Individual
	// workspaces that cannot be read come back as defaults.
	Load(ctx context.Context) (entity.SessionSnapshot, error)

	// Save writes only the parts whose content changed since the last
	// successful write.
	Save(ctx context.Context, snapshot entity.SessionSnapshot) (SaveStats, error)

	// Backup copies the current session file next to it and returns the
	// backup path.
	Backup(ctx context.Context) (string, error)
}
