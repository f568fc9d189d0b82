package model

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/app/shell"
	"github.com/bnema/siteshell/internal/application/port"
	portmocks "github.com/bnema/siteshell/internal/application/port/mocks"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/repository"
	repomocks "github.com/bnema/siteshell/internal/domain/repository/mocks"
	"github.com/bnema/siteshell/internal/infrastructure/engine/stub"
	"github.com/bnema/siteshell/internal/logging"
)

const defaultURL = "https://chatgpt.com"

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// syncRunner runs commands inline against a shell driven by a manual
// scheduler.
type syncRunner struct {
	shell *shell.Shell
	sched *mainloop.ManualScheduler
	calls int
}

func (r *syncRunner) Exec(fn func(s *shell.Shell) error) (shell.View, error) {
	r.calls++
	var err error
	if fn != nil {
		err = fn(r.shell)
	}
	r.sched.Drain()
	return r.shell.State(), err
}

func newTestModel(t *testing.T) (ShellModel, *syncRunner) {
	t.Helper()
	sessions := repomocks.NewMockSessionStateRepository(t)
	sessions.EXPECT().Load(mock.Anything).Return(nil, nil)
	sessions.EXPECT().Save(mock.Anything, mock.Anything).Return(repository.SaveStats{}, nil).Maybe()
	domains := repomocks.NewMockAllowlistRepository(t)
	domains.EXPECT().Load(mock.Anything).Return(nil, nil)
	domains.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Maybe()

	sched := mainloop.NewManualScheduler(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	sh := shell.New(testCtx(), shell.Deps{
		Engine:     stub.New(),
		Scheduler:  sched,
		Sessions:   usecase.NewManageSessionUseCase(sessions, defaultURL),
		Allowlist:  usecase.NewManageAllowlistUseCase(domains),
		ProfileDir: func(id entity.WorkspaceID) string { return filepath.Join(dir, id.DirName()) },
	}, shell.Options{DefaultURL: defaultURL})
	require.NoError(t, sh.Start(testCtx()))
	sched.Drain()

	runner := &syncRunner{shell: sh, sched: sched}
	m := NewShellModel(testCtx(), styles.NewTheme(), runner)
	m = step(t, m, m.Init())
	return m, runner
}

// step runs cmd and feeds its message back into the model.
func step(t *testing.T, m ShellModel, cmd tea.Cmd) ShellModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	next, _ := m.Update(msg)
	return next.(ShellModel)
}

// press feeds a key that triggers a shell command and applies the result.
func press(t *testing.T, m ShellModel, k tea.KeyMsg) ShellModel {
	t.Helper()
	next, cmd := m.Update(k)
	sm := next.(ShellModel)
	if cmd == nil {
		return sm
	}
	msg, ok := cmd().(stateMsg)
	require.True(t, ok, "key %q should run a shell command", k.String())
	next, _ = sm.Update(msg)
	return next.(ShellModel)
}

// typeKey feeds a key without running the command it returns, such as a
// cursor blink.
func typeKey(m ShellModel, k tea.KeyMsg) ShellModel {
	next, _ := m.Update(k)
	return next.(ShellModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestShellModel_InitLoadsState(t *testing.T) {
	m, _ := newTestModel(t)

	require.Len(t, m.view.Workspaces, entity.WorkspaceCount)
	assert.Equal(t, "Workspace 1", m.view.CurrentWorkspace().Name)
	assert.Contains(t, m.View(), "Workspace 1")
}

func TestShellModel_TabKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Len(t, m.view.CurrentWorkspace().Tabs, 2)
	assert.Equal(t, 1, m.view.CurrentWorkspace().ActiveTab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.view.CurrentWorkspace().ActiveTab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Len(t, m.view.CurrentWorkspace().Tabs, 1)

	m = press(t, m, runes("T"))
	assert.Len(t, m.view.CurrentWorkspace().Tabs, 2)
}

func TestShellModel_SwitchWorkspace(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyF3})
	assert.Equal(t, entity.WorkspaceID(2), m.view.Current)
	assert.Equal(t, "Workspace 3", m.view.CurrentWorkspace().Name)
}

func TestShellModel_OpenURLNormalizesInput(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeKey(m, runes("o"))
	require.Equal(t, modeOpen, m.mode)
	for _, r := range "chatgpt.com/c/42" {
		m = typeKey(m, runes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "https://chatgpt.com/c/42", m.view.CurrentWorkspace().Tabs[0].URL)
}

func TestShellModel_RenameAndNotes(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeKey(m, runes("n"))
	require.Equal(t, modeRename, m.mode)
	m.input.SetValue("Research")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Research", m.view.CurrentWorkspace().Name)

	m = typeKey(m, runes("e"))
	require.Equal(t, modeNote, m.mode)
	m.note.SetValue("follow up on benchmarks")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "follow up on benchmarks", m.view.CurrentWorkspace().NoteContent)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.True(t, m.view.CurrentWorkspace().NotePanelVisible)
	assert.Contains(t, m.View(), "follow up on benchmarks")
}

func TestShellModel_DomainPromptsAreQueued(t *testing.T) {
	m, _ := newTestModel(t)

	var answers []entity.DomainDecision
	answer := func(d entity.DomainDecision) { answers = append(answers, d) }

	next, _ := m.Update(domainPromptMsg{prompt: port.DomainPrompt{Host: "docs.python.org", URL: "https://docs.python.org/3/"}, callback: answer})
	m = next.(ShellModel)
	next, _ = m.Update(domainPromptMsg{prompt: port.DomainPrompt{Host: "pkg.go.dev", URL: "https://pkg.go.dev/"}, callback: answer})
	m = next.(ShellModel)

	require.NotNil(t, m.decision)
	assert.Equal(t, "docs.python.org", m.decision.Host)
	assert.Contains(t, m.View(), "docs.python.org")

	m = press(t, m, runes("o"))
	require.NotNil(t, m.decision, "the queued prompt is shown next")
	assert.Equal(t, "pkg.go.dev", m.decision.Host)
	assert.Equal(t, modeNormal, m.mode, "keys go to the dialog, not the shell")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.decision)
	assert.Equal(t, []entity.DomainDecision{entity.DomainDecisionAllowOnce, entity.DomainDecisionCancel}, answers)
}

func TestShellModel_RefreshesAreCoalesced(t *testing.T) {
	m, runner := newTestModel(t)
	before := runner.calls

	next, cmd := m.Update(refreshMsg{})
	m = next.(ShellModel)
	require.NotNil(t, cmd)
	next, again := m.Update(refreshMsg{})
	m = next.(ShellModel)
	assert.Nil(t, again, "a refresh in flight absorbs the next one")

	next, follow := m.Update(cmd())
	m = next.(ShellModel)
	require.NotNil(t, follow, "one more refresh runs for the absorbed request")
	m = step(t, m, follow)
	assert.False(t, m.refreshing)
	assert.Equal(t, before+2, runner.calls)
}

func TestShellModel_CopyURL(t *testing.T) {
	m, _ := newTestModel(t)
	clip := portmocks.NewMockClipboard(t)
	clip.EXPECT().WriteText(mock.Anything, defaultURL).Return(nil).Once()
	m = m.WithClipboard(clip)

	next, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd)
	m = step(t, next.(ShellModel), cmd)

	assert.Equal(t, "url copied", m.status)
	assert.NoError(t, m.err)
}

func TestShellModel_CopyURLWithoutClipboard(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("y"))

	assert.Nil(t, cmd)
}
