package port

import (
	"context"

	"github.com/bnema/siteshell/internal/domain/entity"
)

// DomainPrompt describes a navigation blocked because its host is unknown.
type DomainPrompt struct {
	WorkspaceID entity.WorkspaceID
	ContextID   entity.ContextID
	URL         string
	Host        string
}

// DomainDecisionPresenter asks the user what to do with an unknown domain.
// It is implemented by the front-end.
type DomainDecisionPresenter interface {
	// ShowDomainDecision displays the prompt. The callback is invoked exactly
	// once with the decision; a dismissed prompt reports Cancel. It may be
	// called from any goroutine.
	ShowDomainDecision(ctx context.Context, prompt DomainPrompt, callback func(entity.DomainDecision))
}

// ExternalOpener opens a URL in the system browser.
type ExternalOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}
