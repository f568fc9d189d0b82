package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// domainPromptMsg asks the model to show the decision dialog.
type domainPromptMsg struct {
	prompt   port.DomainPrompt
	callback func(entity.DomainDecision)
}

// refreshMsg tells the model the shell state changed.
type refreshMsg struct{}

// Presenter shows domain decision prompts in the terminal UI.
type Presenter struct {
	sender Sender
}

var _ port.DomainDecisionPresenter = (*Presenter)(nil)

// NewPresenter creates a presenter delivering prompts through sender.
func NewPresenter(sender Sender) *Presenter {
	return &Presenter{sender: sender}
}

// ShowDomainDecision implements port.DomainDecisionPresenter. The dialog
// answers through callback once the user picks an option.
func (p *Presenter) ShowDomainDecision(_ context.Context, prompt port.DomainPrompt, callback func(entity.DomainDecision)) {
	p.sender.Send(domainPromptMsg{prompt: prompt, callback: callback})
}

// Refresh asks the model to redraw from fresh state.
func (p *Presenter) Refresh() {
	p.sender.Send(refreshMsg{})
}
