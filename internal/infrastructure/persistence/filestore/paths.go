// Package filestore persists session state and the domain allowlist as
// plain files under the data directory.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/siteshell/internal/domain/entity"
)

const (
	SessionFileName   = "sessions.json"
	BackupFileName    = "sessions.backup.json"
	AllowlistFileName = "domain_allowlist.json"
	NoteFileName      = "notepad.md"
	ProfileDirName    = "profile"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Layout resolves every path the stores use below one data directory.
type Layout struct {
	DataDir string
}

// NewLayout returns the layout rooted at dataDir.
func NewLayout(dataDir string) Layout {
	return Layout{DataDir: dataDir}
}

func (l Layout) SessionFile() string   { return filepath.Join(l.DataDir, SessionFileName) }
func (l Layout) BackupFile() string    { return filepath.Join(l.DataDir, BackupFileName) }
func (l Layout) AllowlistFile() string { return filepath.Join(l.DataDir, AllowlistFileName) }

// WorkspaceDir is <data>/workspace_<id>.
func (l Layout) WorkspaceDir(id entity.WorkspaceID) string {
	return filepath.Join(l.DataDir, id.DirName())
}

// NoteFile is <data>/workspace_<id>/notepad.md.
func (l Layout) NoteFile(id entity.WorkspaceID) string {
	return filepath.Join(l.WorkspaceDir(id), NoteFileName)
}

// ProfileDir is the engine storage directory of a workspace. Each workspace
// gets its own and they are never shared.
func (l Layout) ProfileDir(id entity.WorkspaceID) string {
	return filepath.Join(l.WorkspaceDir(id), ProfileDirName)
}

// Ensure creates the data directory and one directory per workspace.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.DataDir, dirPerm); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, id := range entity.AllWorkspaceIDs() {
		if err := os.MkdirAll(l.ProfileDir(id), dirPerm); err != nil {
			return fmt.Errorf("create workspace %d dir: %w", id, err)
		}
	}
	return nil
}
