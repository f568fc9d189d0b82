package shell

import (
	"context"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/logging"
)

// sink receives engine callbacks for one workspace and moves them onto the
// event loop. Title and URL bursts for the same context collapse into one
// update carrying the latest value.
type sink struct {
	shell       *Shell
	ctx         context.Context
	workspaceID entity.WorkspaceID
}

var _ port.EngineEvents = (*sink)(nil)

func (k *sink) TitleChanged(id entity.ContextID, title string) {
	k.shell.titles.Post(id, func() {
		if ws := k.shell.workspaces[k.workspaceID]; ws != nil {
			ws.Tabs().HandleTitleChanged(k.ctx, id, title)
		}
	})
}

func (k *sink) URLChanged(id entity.ContextID, url string) {
	k.shell.urls.Post(id, func() {
		ws := k.shell.workspaces[k.workspaceID]
		if ws == nil {
			return
		}
		if ws.Tabs().HandleURLChanged(k.ctx, id, url) && k.workspaceID == k.shell.current {
			k.shell.memory.TouchTab(k.workspaceID, id)
		}
	})
}

func (k *sink) LoadFinished(id entity.ContextID, ok bool) {
	k.shell.deps.Scheduler.Post(func() {
		logging.FromContext(k.ctx).Trace().
			Int("workspace_id", int(k.workspaceID)).
			Str("context_id", string(id)).
			Bool("ok", ok).
			Msg("load finished")
	})
}

// AcceptNavigation answers on the calling goroutine; only follow-up work is
// posted to the loop.
func (k *sink) AcceptNavigation(id entity.ContextID, url string, topLevel bool) bool {
	return k.shell.guard.Accept(k.ctx, entity.NavigationRequest{
		WorkspaceID: k.workspaceID,
		ContextID:   id,
		URL:         url,
		TopLevel:    topLevel,
	})
}
