package usecase

import (
	"context"
	"sync"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/bnema/siteshell/internal/logging"
)

// ContextLoader loads a URL into a specific browsing context. It is used to
// retry a navigation once the user allowed it.
type ContextLoader interface {
	LoadInContext(ctx context.Context, workspaceID entity.WorkspaceID, id entity.ContextID, url string) error
}

// InterceptNavigationUseCase answers the engine's navigation callbacks.
// Accept is synchronous and safe from any goroutine; prompts, external
// opens and retries run on the event loop.
type InterceptNavigationUseCase struct {
	allowlist *ManageAllowlistUseCase
	scheduler port.Scheduler
	publisher port.EventPublisher
	loader    ContextLoader

	mu        sync.RWMutex
	oauth     navigation.OAuthPolicy
	presenter port.DomainDecisionPresenter
	opener    port.ExternalOpener
	pending   map[string]struct{}
	bypass    map[string]struct{}
}

// NewInterceptNavigationUseCase creates the use case. The presenter and
// opener are optional and may be set later.
func NewInterceptNavigationUseCase(
	allowlist *ManageAllowlistUseCase,
	scheduler port.Scheduler,
	publisher port.EventPublisher,
	loader ContextLoader,
	oauth navigation.OAuthPolicy,
) *InterceptNavigationUseCase {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	return &InterceptNavigationUseCase{
		allowlist: allowlist,
		scheduler: scheduler,
		publisher: publisher,
		loader:    loader,
		oauth:     oauth,
		pending:   make(map[string]struct{}),
		bypass:    make(map[string]struct{}),
	}
}

// SetPresenter sets the domain decision presenter. This can be called after
// initialization when the front-end is available.
func (uc *InterceptNavigationUseCase) SetPresenter(presenter port.DomainDecisionPresenter) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.presenter = presenter
}

// SetOpener sets the system browser opener used in external OAuth mode.
func (uc *InterceptNavigationUseCase) SetOpener(opener port.ExternalOpener) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.opener = opener
}

// SetOAuthPolicy swaps the OAuth policy, e.g. after a config reload.
func (uc *InterceptNavigationUseCase) SetOAuthPolicy(policy navigation.OAuthPolicy) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.oauth = policy
}

// OAuthPolicy returns the current OAuth policy.
func (uc *InterceptNavigationUseCase) OAuthPolicy() navigation.OAuthPolicy {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.oauth
}

// Accept decides whether the engine may proceed with req.
func (uc *InterceptNavigationUseCase) Accept(ctx context.Context, req entity.NavigationRequest) bool {
	log := logging.FromContext(ctx).With().
		Str("component", "navigation").
		Int("workspace_id", int(req.WorkspaceID)).
		Str("context_id", string(req.ContextID)).
		Str("url", req.URL).
		Bool("top_level", req.TopLevel).
		Logger()

	decision := uc.allowlist.Decide(req, uc.OAuthPolicy())
	action := decision.Action
	if action == entity.NavigationExternal && (uc.consumeBypass(req.URL) || !uc.hasOpener()) {
		action = entity.NavigationAllow
	}

	uc.scheduler.Post(func() {
		uc.publisher.Publish(entity.Event{
			Name:        entity.EventNavigationRequested,
			WorkspaceID: req.WorkspaceID,
			ContextID:   req.ContextID,
			URL:         req.URL,
			Action:      action,
		})
	})

	switch action {
	case entity.NavigationAllow:
		log.Trace().Bool("oauth", decision.OAuth).Msg("navigation allowed")
		return true
	case entity.NavigationPrompt:
		log.Debug().Str("host", decision.Verdict.Host).Msg("unknown domain, asking user")
		uc.escalate(ctx, req, decision.Verdict.Host)
		return false
	case entity.NavigationExternal:
		log.Info().Msg("opening oauth flow in system browser")
		uc.scheduler.Post(func() { uc.openExternally(ctx, req) })
		return false
	default:
		log.Debug().Str("reason", decision.Verdict.Reason.String()).Msg("navigation blocked")
		return false
	}
}

// Check runs only the security check, without side effects.
func (uc *InterceptNavigationUseCase) Check(rawURL string) entity.Verdict {
	return uc.allowlist.ShouldBlock(rawURL)
}

// escalate shows at most one prompt per host at a time. Without a presenter
// the navigation simply stays cancelled.
func (uc *InterceptNavigationUseCase) escalate(ctx context.Context, req entity.NavigationRequest, host string) {
	uc.mu.Lock()
	if _, open := uc.pending[host]; open {
		uc.mu.Unlock()
		return
	}
	presenter := uc.presenter
	if presenter == nil {
		uc.mu.Unlock()
		logging.FromContext(ctx).Debug().Str("host", host).Msg("no domain presenter, cancelling navigation")
		return
	}
	uc.pending[host] = struct{}{}
	uc.mu.Unlock()

	prompt := port.DomainPrompt{
		WorkspaceID: req.WorkspaceID,
		ContextID:   req.ContextID,
		URL:         req.URL,
		Host:        host,
	}

	uc.scheduler.Post(func() {
		var once sync.Once
		presenter.ShowDomainDecision(ctx, prompt, func(decision entity.DomainDecision) {
			once.Do(func() {
				uc.scheduler.Post(func() { uc.applyDecision(ctx, req, host, decision) })
			})
		})
	})
}

func (uc *InterceptNavigationUseCase) applyDecision(
	ctx context.Context,
	req entity.NavigationRequest,
	host string,
	decision entity.DomainDecision,
) {
	log := logging.FromContext(ctx).With().
		Str("host", host).
		Str("decision", decision.String()).
		Logger()

	uc.mu.Lock()
	delete(uc.pending, host)
	uc.mu.Unlock()

	switch decision {
	case entity.DomainDecisionAllowOnce:
		uc.allowlist.AllowForSession(ctx, host)
	case entity.DomainDecisionAlwaysAllow:
		if _, err := uc.allowlist.Add(ctx, host); err != nil {
			log.Warn().Err(err).Msg("failed to persist allowed domain, allowed for this session only")
		}
	default:
		log.Debug().Msg("navigation cancelled by user")
		return
	}

	uc.publisher.Publish(entity.Event{Name: entity.EventAllowlistChanged, WorkspaceID: req.WorkspaceID, URL: host})

	if err := uc.loader.LoadInContext(ctx, req.WorkspaceID, req.ContextID, req.URL); err != nil {
		log.Debug().Err(err).Msg("could not retry navigation, context is gone")
	}
}

func (uc *InterceptNavigationUseCase) openExternally(ctx context.Context, req entity.NavigationRequest) {
	uc.mu.RLock()
	opener := uc.opener
	uc.mu.RUnlock()

	err := opener.OpenURL(ctx, req.URL)
	if err == nil {
		return
	}

	logging.FromContext(ctx).Warn().Err(err).Str("url", req.URL).Msg("system browser failed, continuing in context")
	uc.mu.Lock()
	uc.bypass[req.URL] = struct{}{}
	uc.mu.Unlock()

	if err := uc.loader.LoadInContext(ctx, req.WorkspaceID, req.ContextID, req.URL); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("could not retry navigation, context is gone")
	}
}

func (uc *InterceptNavigationUseCase) hasOpener() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.opener != nil
}

func (uc *InterceptNavigationUseCase) consumeBypass(rawURL string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.bypass[rawURL]; ok {
		delete(uc.bypass, rawURL)
		return true
	}
	return false
}
