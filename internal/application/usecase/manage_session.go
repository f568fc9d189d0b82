package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/repository"
	"github.com/bnema/siteshell/internal/logging"
)

// ManageSessionUseCase loads and saves the workspace snapshots.
type ManageSessionUseCase struct {
	stateRepo  repository.SessionStateRepository
	defaultURL string
}

// NewManageSessionUseCase creates a new ManageSessionUseCase.
func NewManageSessionUseCase(stateRepo repository.SessionStateRepository, defaultURL string) *ManageSessionUseCase {
	return &ManageSessionUseCase{stateRepo: stateRepo, defaultURL: defaultURL}
}

// Load returns a snapshot for every workspace. Storage failures are logged
// and answered with defaults; Load itself never fails.
func (uc *ManageSessionUseCase) Load(ctx context.Context) entity.SessionSnapshot {
	log := logging.FromContext(ctx)

	snapshot, err := uc.stateRepo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session, starting with defaults")
		return entity.DefaultSession(uc.defaultURL)
	}
	if snapshot == nil {
		snapshot = entity.SessionSnapshot{}
	}
	if filled := snapshot.Backfill(uc.defaultURL); len(filled) > 0 {
		log.Debug().Ints("workspaces", workspaceInts(filled)).Msg("backfilled missing workspaces")
	}

	log.Debug().
		Int("workspaces", len(snapshot)).
		Int("tab_count", snapshot.TabCount()).
		Msg("session loaded")
	return snapshot
}

// Save writes snapshot, skipping unchanged parts.
func (uc *ManageSessionUseCase) Save(ctx context.Context, snapshot entity.SessionSnapshot) (repository.SaveStats, error) {
	if len(snapshot) == 0 {
		return repository.SaveStats{}, fmt.Errorf("save session: empty snapshot")
	}

	stats, err := uc.stateRepo.Save(ctx, snapshot)
	if err != nil {
		return stats, fmt.Errorf("save session: %w", err)
	}

	log := logging.FromContext(ctx)
	if stats.Wrote() {
		log.Debug().
			Bool("session_written", stats.SessionWritten).
			Ints("notes_written", workspaceInts(stats.NotesWritten)).
			Msg("session saved")
	} else {
		log.Trace().Msg("session unchanged, nothing written")
	}
	return stats, nil
}

// Backup copies the session file aside.
func (uc *ManageSessionUseCase) Backup(ctx context.Context) (string, error) {
	path, err := uc.stateRepo.Backup(ctx)
	if err != nil {
		return "", fmt.Errorf("backup session: %w", err)
	}
	logging.FromContext(ctx).Info().Str("path", path).Msg("session backed up")
	return path, nil
}

func workspaceInts(ids []entity.WorkspaceID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
