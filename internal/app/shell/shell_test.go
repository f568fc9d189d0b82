package shell_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/app/shell"
	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/repository"
	repomocks "github.com/bnema/siteshell/internal/domain/repository/mocks"
	"github.com/bnema/siteshell/internal/infrastructure/engine/stub"
	"github.com/bnema/siteshell/internal/infrastructure/snapshot"
	"github.com/bnema/siteshell/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const defaultURL = "https://chatgpt.com"

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type fixture struct {
	shell    *shell.Shell
	engine   *stub.Engine
	sched    *mainloop.ManualScheduler
	sessions *repomocks.MockSessionStateRepository
	domains  *repomocks.MockAllowlistRepository
	dataDir  string

	mu    sync.Mutex
	saved []entity.SessionSnapshot
	// journalAtSave is the engine journal length seen by each Save.
	journalAtSave []int
}

func (f *fixture) saves() []entity.SessionSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.SessionSnapshot(nil), f.saved...)
}

func storedSession() entity.SessionSnapshot {
	return entity.SessionSnapshot{
		0: {ID: 0, Name: "Chat", Tabs: []entity.TabSnapshot{
			{URL: "https://chatgpt.com/c/1", Title: "First"},
			{URL: "https://chatgpt.com/c/2", Title: "Second"},
		}, ActiveTabIndex: 1},
		1: {ID: 1, Name: "Research", Tabs: []entity.TabSnapshot{{URL: "https://chatgpt.com/c/3"}}, NoteContent: "todo"},
	}
}

func newFixture(t *testing.T, stored entity.SessionSnapshot) *fixture {
	t.Helper()
	f := &fixture{
		engine:   stub.New(),
		sched:    mainloop.NewManualScheduler(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)),
		sessions: repomocks.NewMockSessionStateRepository(t),
		domains:  repomocks.NewMockAllowlistRepository(t),
		dataDir:  t.TempDir(),
	}
	f.engine.Titles["https://chatgpt.com/c/1"] = "First"
	f.engine.Titles["https://chatgpt.com/c/2"] = "Second"
	f.engine.Titles["https://chatgpt.com/c/3"] = "Third"

	f.sessions.EXPECT().Load(mock.Anything).Return(stored, nil).Maybe()
	f.sessions.EXPECT().Save(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, snap entity.SessionSnapshot) (repository.SaveStats, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.saved = append(f.saved, snap.Clone())
			f.journalAtSave = append(f.journalAtSave, len(f.engine.Journal()))
			return repository.SaveStats{SessionWritten: true}, nil
		}).Maybe()
	f.domains.EXPECT().Load(mock.Anything).Return([]string{"example.org"}, nil).Maybe()

	f.shell = shell.New(testContext(), shell.Deps{
		Engine:    f.engine,
		Scheduler: f.sched,
		Sessions:  usecase.NewManageSessionUseCase(f.sessions, defaultURL),
		Allowlist: usecase.NewManageAllowlistUseCase(f.domains),
		ProfileDir: func(id entity.WorkspaceID) string {
			return filepath.Join(f.dataDir, id.DirName(), "profile")
		},
	}, shell.Options{
		DefaultURL: defaultURL,
		Memory:     usecase.MemoryConfig{Enabled: true, CheckInterval: time.Minute, IdleThreshold: 5 * time.Minute},
		Snapshot:   snapshot.Config{AutosaveInterval: 10 * time.Minute, NoteDebounce: 2 * time.Second, ChangeDebounce: 500 * time.Millisecond},
	})
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.shell.Start(testContext()))
	f.sched.Drain()
}

func TestShell_StartOpensIsolatedProfilesAndRestoresSession(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)

	dirs := map[string]bool{}
	for _, id := range entity.AllWorkspaceIDs() {
		p := f.engine.Profile(id)
		require.NotNil(t, p, "workspace %d", id)
		dirs[p.Dir()] = true
	}
	assert.Len(t, dirs, entity.WorkspaceCount, "every workspace gets its own storage")

	view := f.shell.State()
	require.Len(t, view.Workspaces, entity.WorkspaceCount)
	assert.Equal(t, entity.WorkspaceID(0), view.Current)

	cur := view.CurrentWorkspace()
	assert.Equal(t, "Chat", cur.Name)
	require.Len(t, cur.Tabs, 2)
	assert.Equal(t, 1, cur.ActiveTab)
	assert.True(t, cur.Tabs[1].Active)
	assert.Equal(t, "Second", cur.Tabs[1].Title)

	assert.Equal(t, "todo", view.Workspaces[1].NoteContent)
	assert.Equal(t, "Workspace 3", view.Workspaces[2].Name)
	require.Len(t, view.Workspaces[2].Tabs, 1)
	assert.Equal(t, defaultURL, view.Workspaces[2].Tabs[0].URL)
	assert.Contains(t, view.Domains, "example.org")
}

func TestShell_CommandsBeforeStartFail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := testContext()

	_, err := f.shell.NewTab(ctx, "")
	assert.ErrorIs(t, err, shell.ErrNotStarted)
	assert.ErrorIs(t, f.shell.SwitchWorkspace(ctx, 1), shell.ErrNotStarted)
	assert.NoError(t, f.shell.Shutdown(ctx), "shutdown of a shell never started is a no-op")
}

func TestShell_SwitchWorkspace(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()

	var switched []entity.Event
	f.shell.Dispatcher().On(entity.EventWorkspaceSwitched, func(e entity.Event) { switched = append(switched, e) })

	assert.ErrorIs(t, f.shell.SwitchWorkspace(ctx, 4), shell.ErrInvalidWorkspace)
	assert.ErrorIs(t, f.shell.SwitchWorkspace(ctx, -1), shell.ErrInvalidWorkspace)
	require.NoError(t, f.shell.SwitchWorkspace(ctx, 0))
	assert.Empty(t, switched, "switching to the current workspace does nothing")

	require.NoError(t, f.shell.SwitchWorkspace(ctx, 1))
	require.Len(t, switched, 1)
	assert.Equal(t, entity.WorkspaceID(1), switched[0].WorkspaceID)
	assert.Equal(t, entity.WorkspaceID(1), f.shell.CurrentWorkspace())
	assert.Equal(t, "Research", f.shell.State().CurrentWorkspace().Name)

	n := len(f.saves())
	f.sched.Advance(500 * time.Millisecond)
	assert.Len(t, f.saves(), n+1, "a switch schedules a save")
}

func TestShell_SwitchReattachesDetachedTabs(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()

	profile := f.engine.Profile(2)
	profile.FailNewContext(errors.New("browser exited"))
	f.shell.Workspace(2).Restore(ctx, &entity.WorkspaceSnapshot{ID: 2, Tabs: []entity.TabSnapshot{{URL: "https://chatgpt.com/c/9"}}})
	require.Equal(t, 1, f.shell.Workspace(2).Tabs().Count())

	profile.FailNewContext(nil)
	require.NoError(t, f.shell.SwitchWorkspace(ctx, 2))
	require.NoError(t, f.shell.Reload(ctx))

	tab := f.shell.Workspace(2).Tabs().Tabs()[0]
	require.NotNil(t, profile.Context(tab.ID))
	assert.Equal(t, "https://chatgpt.com/c/9", profile.Context(tab.ID).Loads()[0])
}

func TestShell_TabCommandsActOnCurrentWorkspace(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()

	require.NoError(t, f.shell.SwitchWorkspace(ctx, 1))
	idx, err := f.shell.NewTab(ctx, "https://chatgpt.com/c/4")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	f.sched.Drain()

	view := f.shell.State()
	assert.Len(t, view.Workspaces[0].Tabs, 2, "other workspaces are untouched")
	require.Len(t, view.Workspaces[1].Tabs, 2)
	assert.Equal(t, "https://chatgpt.com/c/4", view.Workspaces[1].Tabs[1].URL)

	closed, err := f.shell.CloseCurrentTab(ctx)
	require.NoError(t, err)
	assert.True(t, closed)
	restored, err := f.shell.RestoreLastClosed(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	f.sched.Drain()
	assert.Equal(t, "https://chatgpt.com/c/4", f.shell.State().CurrentWorkspace().Tabs[1].URL)

	require.NoError(t, f.shell.NextTab(ctx))
	assert.Equal(t, 0, f.shell.State().CurrentWorkspace().ActiveTab)
	require.NoError(t, f.shell.PreviousTab(ctx))
	assert.Equal(t, 1, f.shell.State().CurrentWorkspace().ActiveTab)
	ok, err := f.shell.SelectTab(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	renamed, err := f.shell.RenameWorkspace(ctx, "  Papers ")
	require.NoError(t, err)
	assert.True(t, renamed)
	visible, err := f.shell.ToggleNotePanel(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	cur := f.shell.State().CurrentWorkspace()
	assert.Equal(t, "Papers", cur.Name)
	assert.True(t, cur.NotePanelVisible)
}

func TestShell_TitleBurstCollapsesToLatest(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)

	var updates []entity.Event
	f.shell.Dispatcher().On(entity.EventTabUpdated, func(e entity.Event) { updates = append(updates, e) })

	id := f.shell.State().CurrentWorkspace().Tabs[0].ContextID
	page := f.engine.Profile(0).Context(id)
	require.NotNil(t, page)
	page.SetTitle("typing.")
	page.SetTitle("typing..")
	page.SetTitle("Answer ready")
	f.sched.Drain()

	require.Len(t, updates, 1)
	assert.Equal(t, "Answer ready", updates[0].Title)
	assert.Equal(t, "Answer ready", f.shell.State().CurrentWorkspace().Tabs[0].Title)
}

func TestShell_StructuralChangesAreDebouncedIntoOneSave(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()

	var changed int
	f.shell.Dispatcher().On(entity.EventSessionChanged, func(entity.Event) { changed++ })
	f.sched.Advance(time.Second)
	before := len(f.saves())

	_, err := f.shell.NewTab(ctx, "https://chatgpt.com/c/9")
	require.NoError(t, err)
	_, err = f.shell.SelectTab(ctx, 0)
	require.NoError(t, err)
	f.sched.Drain()
	assert.Positive(t, changed)

	f.sched.Advance(499 * time.Millisecond)
	assert.Len(t, f.saves(), before)
	f.sched.Advance(time.Millisecond)
	saves := f.saves()
	require.Len(t, saves, before+1)
	assert.Len(t, saves[len(saves)-1][0].Tabs, 3)
}

func TestShell_NoteEditsUseTheNoteDebounce(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()
	f.sched.Advance(time.Second)
	before := len(f.saves())

	for _, text := range []string{"a", "ab", "abc"} {
		changed, err := f.shell.SetNoteContent(ctx, text)
		require.NoError(t, err)
		assert.True(t, changed)
		f.sched.Advance(500 * time.Millisecond)
	}
	assert.Len(t, f.saves(), before, "still typing")

	f.sched.Advance(2 * time.Second)
	saves := f.saves()
	require.Len(t, saves, before+1)
	assert.Equal(t, "abc", saves[len(saves)-1][0].NoteContent)
}

func TestShell_IdleWorkspaceIsCompressedAndRestoredOnSwitch(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()

	research := f.shell.State().Workspaces[1]
	page := f.engine.Profile(1).Context(research.Tabs[0].ContextID)
	require.NotNil(t, page)

	f.sched.Advance(4 * time.Minute)
	assert.False(t, f.shell.State().Workspaces[1].Compressed)

	f.sched.Advance(2 * time.Minute)
	view := f.shell.State()
	assert.True(t, view.Workspaces[1].Compressed)
	assert.False(t, view.Workspaces[0].Compressed, "the visible workspace is never compressed")
	assert.Equal(t, "about:blank", page.CurrentURL())
	assert.Equal(t, "https://chatgpt.com/c/3", view.Workspaces[1].Tabs[0].URL, "tabs keep their URL while unloaded")

	require.NoError(t, f.shell.SwitchWorkspace(ctx, 1))
	f.sched.Drain()
	assert.False(t, f.shell.State().Workspaces[1].Compressed)
	assert.Equal(t, "https://chatgpt.com/c/3", page.CurrentURL())
	assert.Equal(t, "Third", f.shell.State().CurrentWorkspace().Tabs[0].Title)
}

type promptRecorder struct {
	mu        sync.Mutex
	prompts   []port.DomainPrompt
	callbacks []func(entity.DomainDecision)
}

func (p *promptRecorder) ShowDomainDecision(_ context.Context, prompt port.DomainPrompt, cb func(entity.DomainDecision)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	p.callbacks = append(p.callbacks, cb)
}

func TestShell_UnknownDomainPromptsAndRetriesInSameTab(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)

	presenter := &promptRecorder{}
	f.shell.Guard().SetPresenter(presenter)

	id := f.shell.State().CurrentWorkspace().Tabs[0].ContextID
	page := f.engine.Profile(0).Context(id)
	require.NotNil(t, page)

	assert.False(t, page.Navigate("https://docs.python.org/3/", true))
	assert.True(t, page.Navigate("https://example.org/ok", true), "domains from the allowlist file pass")
	f.sched.Drain()

	require.Len(t, presenter.prompts, 1)
	assert.Equal(t, "docs.python.org", presenter.prompts[0].Host)
	assert.Equal(t, entity.WorkspaceID(0), presenter.prompts[0].WorkspaceID)

	presenter.callbacks[0](entity.DomainDecisionAllowOnce)
	f.sched.Drain()

	assert.Equal(t, "https://docs.python.org/3/", page.CurrentURL())
	assert.Equal(t, "https://docs.python.org/3/", f.shell.State().CurrentWorkspace().Tabs[0].URL)
}

func TestShell_ShutdownFlushesBeforeReleasing(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)
	ctx := testContext()
	f.sched.Advance(time.Second)

	_, err := f.shell.NewTab(ctx, "https://chatgpt.com/c/5")
	require.NoError(t, err)
	f.sched.Drain()
	before := len(f.saves())

	require.NoError(t, f.shell.Shutdown(ctx))
	require.Len(t, f.saves(), before+1, "pending changes are flushed")

	journal := f.engine.Journal()
	f.mu.Lock()
	atSave := f.journalAtSave[len(f.journalAtSave)-1]
	f.mu.Unlock()
	for _, entry := range journal[:atSave] {
		assert.False(t, strings.HasPrefix(entry, "close"), "nothing was released before the final save: %s", entry)
	}

	assert.Equal(t, "close engine", journal[len(journal)-1])
	for _, id := range entity.AllWorkspaceIDs() {
		assert.True(t, f.engine.Profile(id).Closed())
		assert.Zero(t, f.engine.Profile(id).Live())
	}

	assert.NoError(t, f.shell.Shutdown(ctx))
	assert.Len(t, f.saves(), before+1, "second shutdown does nothing")
	assert.Zero(t, f.sched.PendingTimers())
}

func TestShell_ApplyOptionsSwitchesOAuthMode(t *testing.T) {
	f := newFixture(t, storedSession())
	f.start(t)

	assert.Equal(t, entity.OAuthModeKeepInContext, f.shell.State().OAuthMode)

	opts := shell.Options{
		Memory:   usecase.MemoryConfig{Enabled: false},
		Snapshot: snapshot.Config{},
	}
	opts.OAuth = f.shell.Guard().OAuthPolicy()
	opts.OAuth.Mode = entity.OAuthModeExternal
	f.shell.ApplyOptions(testContext(), opts)

	assert.Equal(t, entity.OAuthModeExternal, f.shell.State().OAuthMode)
	f.sched.Advance(10 * time.Minute)
	assert.False(t, f.shell.State().Workspaces[1].Compressed, "memory management was turned off")
}
