package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/siteshell/internal/app/shell"
	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
	"github.com/bnema/siteshell/internal/logging"
)

// Runner executes shell commands on the event loop.
type Runner interface {
	// Exec runs fn on the loop and returns the state right after it. A nil
	// fn only reads the state.
	Exec(fn func(s *shell.Shell) error) (shell.View, error)
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeOpen
	modeRename
	modeNote
)

// statusMsg reports the outcome of a command that does not touch the shell.
type statusMsg struct {
	status string
	err    error
}

// stateMsg carries the state after a command ran.
type stateMsg struct {
	view   shell.View
	err    error
	status string
}

// ShellModel is the terminal front-end of a running shell.
type ShellModel struct {
	help  help.Model
	keys  shellKeyMap
	input textinput.Model
	note  textarea.Model

	decision *styles.DecisionModel
	answer   func(entity.DomainDecision)
	prompts  []domainPromptMsg

	view       shell.View
	mode       inputMode
	width      int
	height     int
	status     string
	err        error
	refreshing bool
	stale      bool

	ctx       context.Context
	runner    Runner
	theme     *styles.Theme
	clipboard port.Clipboard
}

// NewShellModel creates the model. State is fetched on Init.
func NewShellModel(ctx context.Context, theme *styles.Theme, runner Runner) ShellModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 2048

	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.FullKey = theme.HelpKey
	h.Styles.FullDesc = theme.HelpDesc

	note := textarea.New()
	note.ShowLineNumbers = false
	note.Placeholder = "Write notes for this workspace"

	return ShellModel{
		help:   h,
		keys:   defaultShellKeyMap(),
		input:  input,
		note:   note,
		width:  80,
		height: 24,
		ctx:    ctx,
		runner: runner,
		theme:  theme,
	}
}

// WithClipboard enables copying the active tab URL.
func (m ShellModel) WithClipboard(c port.Clipboard) ShellModel {
	m.clipboard = c
	return m
}

// Init implements tea.Model.
func (m ShellModel) Init() tea.Cmd {
	return m.exec("", nil)
}

func (m ShellModel) exec(status string, fn func(s *shell.Shell) error) tea.Cmd {
	return func() tea.Msg {
		view, err := m.runner.Exec(fn)
		if err != nil {
			logging.FromContext(m.ctx).Debug().Err(err).Msg("shell command failed")
		}
		return stateMsg{view: view, err: err, status: status}
	}
}

// Update implements tea.Model.
func (m ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.note.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case stateMsg:
		m.refreshing = false
		m.view = msg.view
		m.err = msg.err
		if msg.status != "" {
			m.status = msg.status
		}
		if m.stale {
			m.stale = false
			m.refreshing = true
			return m, m.exec("", nil)
		}
		return m, nil

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil

	case refreshMsg:
		if m.refreshing {
			m.stale = true
			return m, nil
		}
		m.refreshing = true
		return m, m.exec("", nil)

	case domainPromptMsg:
		if m.decision != nil {
			m.prompts = append(m.prompts, msg)
			return m, nil
		}
		m.showPrompt(msg)
		return m, nil

	case tea.KeyMsg:
		if m.decision != nil {
			return m.handleDecision(msg)
		}
		switch m.mode {
		case modeOpen, modeRename:
			return m.handleInput(msg)
		case modeNote:
			return m.handleNote(msg)
		}
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *ShellModel) showPrompt(p domainPromptMsg) {
	d := styles.NewDecision(m.theme, p.prompt.Host, p.prompt.URL)
	m.decision = &d
	m.answer = p.callback
}

func (m ShellModel) handleDecision(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d, cmd := m.decision.Update(msg)
	m.decision = &d
	if !d.Done() {
		return m, cmd
	}

	decision := d.Result()
	if m.answer != nil {
		m.answer(decision)
	}
	m.status = fmt.Sprintf("%s: %s", d.Host, decision)
	m.decision = nil
	m.answer = nil

	if len(m.prompts) > 0 {
		next := m.prompts[0]
		m.prompts = m.prompts[1:]
		m.showPrompt(next)
	}
	return m, cmd
}

func (m ShellModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NewTab):
		return m, m.exec("", func(s *shell.Shell) error {
			_, err := s.NewTab(ctx, "")
			return err
		})

	case key.Matches(msg, m.keys.CloseTab):
		return m, m.exec("", func(s *shell.Shell) error {
			_, err := s.CloseCurrentTab(ctx)
			return err
		})

	case key.Matches(msg, m.keys.RestoreTab):
		return m, m.exec("", func(s *shell.Shell) error {
			_, err := s.RestoreLastClosed(ctx)
			return err
		})

	case key.Matches(msg, m.keys.NextTab):
		return m, m.exec("", func(s *shell.Shell) error { return s.NextTab(ctx) })

	case key.Matches(msg, m.keys.PrevTab):
		return m, m.exec("", func(s *shell.Shell) error { return s.PreviousTab(ctx) })

	case key.Matches(msg, m.keys.Reload):
		return m, m.exec("reloading", func(s *shell.Shell) error { return s.Reload(ctx) })

	case key.Matches(msg, m.keys.Back):
		return m, m.exec("", func(s *shell.Shell) error { return s.Back(ctx) })

	case key.Matches(msg, m.keys.Forward):
		return m, m.exec("", func(s *shell.Shell) error { return s.Forward(ctx) })

	case key.Matches(msg, m.keys.ToggleNotes):
		return m, m.exec("", func(s *shell.Shell) error {
			_, err := s.ToggleNotePanel(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Open):
		m.mode = modeOpen
		m.input.SetValue("")
		m.input.Placeholder = "URL"
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.CopyURL):
		return m, m.copyActiveURL()

	case key.Matches(msg, m.keys.Rename):
		m.mode = modeRename
		m.input.SetValue(m.view.CurrentWorkspace().Name)
		m.input.Placeholder = "Workspace name"
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.EditNote):
		m.mode = modeNote
		m.note.SetValue(m.view.CurrentWorkspace().NoteContent)
		return m, m.note.Focus()
	}

	for i, binding := range []key.Binding{m.keys.Workspace1, m.keys.Workspace2, m.keys.Workspace3, m.keys.Workspace4} {
		if key.Matches(msg, binding) {
			id := entity.WorkspaceID(i)
			return m, m.exec("", func(s *shell.Shell) error { return s.SwitchWorkspace(ctx, id) })
		}
	}
	return m, nil
}

func (m ShellModel) copyActiveURL() tea.Cmd {
	ws := m.view.CurrentWorkspace()
	if m.clipboard == nil || ws.ActiveTab < 0 || ws.ActiveTab >= len(ws.Tabs) {
		return nil
	}
	target := ws.Tabs[ws.ActiveTab].URL
	clip := m.clipboard
	ctx := m.ctx
	return func() tea.Msg {
		if err := clip.WriteText(ctx, target); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{status: "url copied"}
	}
}

func (m ShellModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		if mode == modeRename {
			return m, m.exec("workspace renamed", func(s *shell.Shell) error {
				_, err := s.RenameWorkspace(ctx, value)
				return err
			})
		}
		target := url.Normalize(value)
		return m, m.exec("", func(s *shell.Shell) error { return s.Navigate(ctx, target) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ShellModel) handleNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx

	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlS {
		content := m.note.Value()
		m.mode = modeNormal
		m.note.Blur()
		return m, m.exec("", func(s *shell.Shell) error {
			_, err := s.SetNoteContent(ctx, content)
			return err
		})
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ShellModel) View() string {
	t := m.theme

	if m.decision != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.decision.View())
	}

	var b strings.Builder
	b.WriteString(styles.RenderWorkspaceBar(t, m.view))
	b.WriteString("\n\n")

	current := m.view.CurrentWorkspace()
	b.WriteString(styles.RenderWorkspace(t, current, m.width))
	b.WriteString("\n")

	switch {
	case m.mode == modeNote:
		b.WriteString(t.NoteHeader.Render(styles.IconNote + " Notes: " + current.Name))
		b.WriteString("\n")
		b.WriteString(m.note.View())
		b.WriteString("\n")
		b.WriteString(t.Subtle.Render("esc or ctrl+s to save"))
		b.WriteString("\n")
	case current.NotePanelVisible:
		b.WriteString(styles.RenderNotePanel(t, current, m.width-2))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s %v", styles.IconX, m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(t.Subtle.Render(m.status))
		b.WriteString("\n")
	}

	if m.mode == modeOpen || m.mode == modeRename {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
