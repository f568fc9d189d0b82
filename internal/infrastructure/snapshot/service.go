// Package snapshot schedules session saves: debounced after changes,
// periodically as a safety net and once more on shutdown.
package snapshot

import (
	"context"
	"time"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/repository"
	"github.com/bnema/siteshell/internal/logging"
)

const (
	DefaultAutosaveInterval = 10 * time.Minute
	DefaultNoteDebounce     = 2 * time.Second
	DefaultChangeDebounce   = 500 * time.Millisecond
)

// Provider materializes the live session.
type Provider interface {
	Snapshot() entity.SessionSnapshot
}

// Config holds the save timings.
type Config struct {
	AutosaveInterval time.Duration
	NoteDebounce     time.Duration
	ChangeDebounce   time.Duration
}

func (c Config) withDefaults() Config {
	if c.AutosaveInterval <= 0 {
		c.AutosaveInterval = DefaultAutosaveInterval
	}
	if c.NoteDebounce < 0 {
		c.NoteDebounce = DefaultNoteDebounce
	}
	if c.ChangeDebounce < 0 {
		c.ChangeDebounce = DefaultChangeDebounce
	}
	return c
}

// Service handles debounced session snapshots. All methods must be called
// on the event loop, where its timers also fire.
type Service struct {
	sessionUC *usecase.ManageSessionUseCase
	provider  Provider
	scheduler port.Scheduler
	publisher port.EventPublisher
	cfg       Config

	ctx         context.Context
	dirty       bool
	changeTimer port.Timer
	noteTimer   port.Timer
	autosave    port.Timer
	saves       int
}

// NewService creates a new snapshot service.
func NewService(
	sessionUC *usecase.ManageSessionUseCase,
	provider Provider,
	scheduler port.Scheduler,
	publisher port.EventPublisher,
	cfg Config,
) *Service {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	return &Service{
		sessionUC: sessionUC,
		provider:  provider,
		scheduler: scheduler,
		publisher: publisher,
		cfg:       cfg.withDefaults(),
	}
}

// Start arms the periodic autosave.
func (s *Service) Start(ctx context.Context) {
	s.ctx = ctx
	s.armAutosave()
	logging.FromContext(ctx).Debug().
		Dur("autosave", s.cfg.AutosaveInterval).
		Dur("note_debounce", s.cfg.NoteDebounce).
		Dur("change_debounce", s.cfg.ChangeDebounce).
		Msg("snapshot service started")
}

func (s *Service) armAutosave() {
	if s.autosave != nil {
		s.autosave.Stop()
	}
	s.autosave = s.scheduler.Every(s.cfg.AutosaveInterval, func() {
		if err := s.save(s.ctx, "autosave"); err != nil {
			logging.FromContext(s.ctx).Error().Err(err).Msg("autosave failed")
		}
	})
}

// Reconfigure applies new timings. Pending debounces keep their old delay.
func (s *Service) Reconfigure(cfg Config) {
	s.cfg = cfg.withDefaults()
	if s.autosave != nil {
		s.armAutosave()
	}
}

// Stop disarms every timer and saves the final state.
func (s *Service) Stop(ctx context.Context) error {
	if s.autosave != nil {
		s.autosave.Stop()
		s.autosave = nil
	}
	return s.Flush(ctx)
}

// MarkDirty signals a structural change. Saves are debounced so bursts of
// tab events produce one write.
func (s *Service) MarkDirty() {
	s.dirty = true
	s.changeTimer = s.debounce(s.changeTimer, s.cfg.ChangeDebounce, "change")
}

// MarkNoteDirty signals a note edit; the save waits for typing to pause.
func (s *Service) MarkNoteDirty() {
	s.dirty = true
	s.noteTimer = s.debounce(s.noteTimer, s.cfg.NoteDebounce, "note")
}

func (s *Service) debounce(timer port.Timer, delay time.Duration, reason string) port.Timer {
	if timer != nil {
		timer.Stop()
	}
	return s.scheduler.AfterFunc(delay, func() {
		if s.ctx == nil {
			return
		}
		if err := s.save(s.ctx, reason); err != nil {
			logging.FromContext(s.ctx).Error().Err(err).Str("reason", reason).Msg("failed to save session snapshot")
		}
	})
}

// Flush cancels pending debounces and saves immediately.
func (s *Service) Flush(ctx context.Context) error {
	s.stopDebounces()
	return s.save(ctx, "flush")
}

func (s *Service) stopDebounces() {
	if s.changeTimer != nil {
		s.changeTimer.Stop()
		s.changeTimer = nil
	}
	if s.noteTimer != nil {
		s.noteTimer.Stop()
		s.noteTimer = nil
	}
}

// Dirty reports whether changes are waiting to be written.
func (s *Service) Dirty() bool { return s.dirty }

// Saves returns how many save attempts were made.
func (s *Service) Saves() int { return s.saves }

// save always hands the snapshot to the store; the store skips unchanged
// parts. dirty is only cleared on success so a failed write is retried.
func (s *Service) save(ctx context.Context, reason string) error {
	s.saves++
	snapshot := s.provider.Snapshot()
	stats, err := s.sessionUC.Save(ctx, snapshot)
	if err != nil {
		return err
	}
	s.dirty = false
	if stats.Wrote() {
		s.publishSaved(stats)
	}
	logging.FromContext(ctx).Trace().Str("reason", reason).Bool("wrote", stats.Wrote()).Msg("snapshot cycle done")
	return nil
}

func (s *Service) publishSaved(stats repository.SaveStats) {
	e := entity.Event{Name: entity.EventSessionSaved}
	if len(stats.NotesWritten) == 1 && !stats.SessionWritten {
		e.WorkspaceID = stats.NotesWritten[0]
	}
	s.publisher.Publish(e)
}
