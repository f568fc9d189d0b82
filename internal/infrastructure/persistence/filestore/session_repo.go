package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/repository"
	"github.com/bnema/siteshell/internal/logging"
	"github.com/cespare/xxhash/v2"
)

// SessionFileVersion is written into every session file.
const SessionFileVersion = 1

// ErrNoSessionFile is returned by Backup when nothing was saved yet.
var ErrNoSessionFile = errors.New("no session file")

type sessionFile struct {
	Version    int                         `json:"version"`
	Workspaces map[string]json.RawMessage `json:"workspaces"`
}

type workspaceRecord struct {
	entity.WorkspaceSnapshot
	LastSaved string `json:"last_saved,omitempty"`
}

// SessionRepository keeps the session file and the per-workspace note files.
// Each part is rewritten only when its content hash changed since the last
// successful write.
type SessionRepository struct {
	layout Layout
	now    func() time.Time

	mu          sync.Mutex
	sessionHash uint64
	hasSession  bool
	noteHashes  map[entity.WorkspaceID]uint64
}

// Option configures a SessionRepository.
type Option func(*SessionRepository)

// WithClock overrides the clock used for last_saved stamps.
func WithClock(now func() time.Time) Option {
	return func(r *SessionRepository) { r.now = now }
}

// NewSessionRepository creates a store rooted at layout.
func NewSessionRepository(layout Layout, opts ...Option) *SessionRepository {
	r := &SessionRepository{
		layout:     layout,
		now:        time.Now,
		noteHashes: make(map[entity.WorkspaceID]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ repository.SessionStateRepository = (*SessionRepository)(nil)

// Load reads the session file and the note side files. A missing session
// file yields an empty snapshot; a workspace entry that does not decode is
// skipped so the caller fills in its default.
func (r *SessionRepository) Load(ctx context.Context) (entity.SessionSnapshot, error) {
	log := logging.FromContext(ctx).With().Str("component", "session-store").Logger()
	path := r.layout.SessionFile()

	snapshot := entity.SessionSnapshot{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("no session file, starting fresh")
	case err != nil:
		return nil, fmt.Errorf("read session file: %w", err)
	default:
		workspaces, err := decodeWorkspaces(data)
		if err != nil {
			return nil, fmt.Errorf("decode session file %s: %w", path, err)
		}
		for key, raw := range workspaces {
			id, err := strconv.Atoi(key)
			if err != nil || !entity.WorkspaceID(id).Valid() {
				log.Warn().Str("key", key).Msg("ignoring unknown workspace id in session file")
				continue
			}
			var rec workspaceRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				log.Warn().Err(err).Int("workspace_id", id).Msg("workspace entry unreadable, using default")
				continue
			}
			ws := rec.WorkspaceSnapshot
			ws.ID = entity.WorkspaceID(id)
			snapshot[ws.ID] = &ws
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ws := range snapshot {
		content, err := r.readNote(id)
		if err != nil {
			log.Warn().Err(err).Int("workspace_id", int(id)).Msg("failed to read note file")
			continue
		}
		ws.NoteContent = content
		r.noteHashes[id] = xxhash.Sum64String(content)
	}

	log.Debug().Int("workspaces", len(snapshot)).Int("tab_count", snapshot.TabCount()).Msg("session file loaded")
	return snapshot, nil
}

// decodeWorkspaces returns the workspace records keyed by id. Files written
// before the version envelope are a bare id to record map.
func decodeWorkspaces(data []byte) (map[string]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if _, ok := top["workspaces"]; !ok {
		if _, versioned := top["version"]; !versioned {
			return top, nil
		}
	}
	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Workspaces, nil
}

func (r *SessionRepository) readNote(id entity.WorkspaceID) (string, error) {
	data, err := os.ReadFile(r.layout.NoteFile(id))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save writes every changed note file and, if the structural state changed,
// the session file. Hashes are only recorded after a successful write, so a
// failed part is retried on the next save.
func (r *SessionRepository) Save(ctx context.Context, snapshot entity.SessionSnapshot) (repository.SaveStats, error) {
	log := logging.FromContext(ctx).With().Str("component", "session-store").Logger()
	var stats repository.SaveStats
	var errs []error

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := sortedIDs(snapshot)
	for _, id := range ids {
		ws := snapshot[id]
		sum := xxhash.Sum64String(ws.NoteContent)
		if prev, ok := r.noteHashes[id]; ok && prev == sum {
			continue
		}
		if _, err := os.Stat(r.layout.NoteFile(id)); errors.Is(err, fs.ErrNotExist) && ws.NoteContent == "" {
			r.noteHashes[id] = sum
			continue
		}
		if err := writeFileAtomic(r.layout.NoteFile(id), []byte(ws.NoteContent)); err != nil {
			log.Warn().Err(err).Int("workspace_id", int(id)).Msg("failed to write note file")
			errs = append(errs, fmt.Errorf("write note %d: %w", id, err))
			continue
		}
		r.noteHashes[id] = sum
		stats.NotesWritten = append(stats.NotesWritten, id)
	}

	sum, err := structuralHash(snapshot, ids)
	if err != nil {
		return stats, fmt.Errorf("hash session: %w", err)
	}
	if r.hasSession && r.sessionHash == sum {
		return stats, errors.Join(errs...)
	}

	data, err := r.encode(snapshot, ids)
	if err != nil {
		return stats, fmt.Errorf("encode session: %w", err)
	}
	if err := writeFileAtomic(r.layout.SessionFile(), data); err != nil {
		errs = append(errs, fmt.Errorf("write session file: %w", err))
		return stats, errors.Join(errs...)
	}
	r.sessionHash = sum
	r.hasSession = true
	stats.SessionWritten = true

	return stats, errors.Join(errs...)
}

// structuralHash covers names, tabs, active index and panel flag. Note
// content and timestamps are excluded.
func structuralHash(snapshot entity.SessionSnapshot, ids []entity.WorkspaceID) (uint64, error) {
	d := xxhash.New()
	enc := json.NewEncoder(d)
	for _, id := range ids {
		if err := enc.Encode(struct {
			ID int `json:"id"`
			*entity.WorkspaceSnapshot
		}{int(id), snapshot[id]}); err != nil {
			return 0, err
		}
	}
	return d.Sum64(), nil
}

func (r *SessionRepository) encode(snapshot entity.SessionSnapshot, ids []entity.WorkspaceID) ([]byte, error) {
	stamp := r.now().Format(time.RFC3339)
	file := sessionFile{Version: SessionFileVersion, Workspaces: make(map[string]json.RawMessage, len(ids))}
	for _, id := range ids {
		raw, err := json.Marshal(workspaceRecord{WorkspaceSnapshot: *snapshot[id], LastSaved: stamp})
		if err != nil {
			return nil, err
		}
		file.Workspaces[strconv.Itoa(int(id))] = raw
	}
	return json.MarshalIndent(file, "", "  ")
}

// Backup copies the session file to sessions.backup.json.
func (r *SessionRepository) Backup(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.layout.SessionFile())
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSessionFile
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}

	dst := r.layout.BackupFile()
	if err := writeFileAtomic(dst, data); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	logging.FromContext(ctx).Debug().Str("path", dst).Int("bytes", len(data)).Msg("session backup written")
	return dst, nil
}

func sortedIDs(snapshot entity.SessionSnapshot) []entity.WorkspaceID {
	ids := make([]entity.WorkspaceID, 0, len(snapshot))
	for id, ws := range snapshot {
		if ws != nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
