package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/application/port"
	portmocks "github.com/bnema/siteshell/internal/application/port/mocks"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	repomocks "github.com/bnema/siteshell/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type loadCall struct {
	workspaceID entity.WorkspaceID
	contextID   entity.ContextID
	url         string
}

type fakeLoader struct {
	mu    sync.Mutex
	calls []loadCall
	err   error
}

func (l *fakeLoader) LoadInContext(_ context.Context, wsID entity.WorkspaceID, id entity.ContextID, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, loadCall{workspaceID: wsID, contextID: id, url: url})
	return l.err
}

type guardFixture struct {
	guard     *usecase.InterceptNavigationUseCase
	allowlist *usecase.ManageAllowlistUseCase
	repo      *repomocks.MockAllowlistRepository
	sched     *mainloop.ManualScheduler
	loader    *fakeLoader
	pub       *recordingPublisher
}

func newGuardFixture(t *testing.T, oauth navigation.OAuthPolicy) *guardFixture {
	t.Helper()
	repo := repomocks.NewMockAllowlistRepository(t)
	allowlist := usecase.NewManageAllowlistUseCase(repo)
	sched := mainloop.NewManualScheduler(time.Now())
	loader := &fakeLoader{}
	pub := &recordingPublisher{}
	return &guardFixture{
		guard:     usecase.NewInterceptNavigationUseCase(allowlist, sched, pub, loader, oauth),
		allowlist: allowlist,
		repo:      repo,
		sched:     sched,
		loader:    loader,
		pub:       pub,
	}
}

func topLevel(rawURL string) entity.NavigationRequest {
	return entity.NavigationRequest{ContextID: "ws1-ctx1", WorkspaceID: 1, URL: rawURL, TopLevel: true}
}

// capturePresenter records every prompt and hands back its callback.
func capturePresenter(t *testing.T) (*portmocks.MockDomainDecisionPresenter, *[]port.DomainPrompt, *[]func(entity.DomainDecision)) {
	t.Helper()
	presenter := portmocks.NewMockDomainDecisionPresenter(t)
	prompts := &[]port.DomainPrompt{}
	callbacks := &[]func(entity.DomainDecision){}
	presenter.EXPECT().
		ShowDomainDecision(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, prompt port.DomainPrompt, cb func(entity.DomainDecision)) {
			*prompts = append(*prompts, prompt)
			*callbacks = append(*callbacks, cb)
		}).
		Maybe()
	return presenter, prompts, callbacks
}

func TestInterceptNavigation_AllowlistedPasses(t *testing.T) {
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())

	assert.True(t, f.guard.Accept(testContext(), topLevel("https://chatgpt.com/c/123")))
	f.sched.Drain()
	assert.Equal(t, []entity.EventName{entity.EventNavigationRequested}, f.pub.names())
}

func TestInterceptNavigation_BlockedSchemesAreSilent(t *testing.T) {
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	presenter := portmocks.NewMockDomainDecisionPresenter(t)
	f.guard.SetPresenter(presenter)

	for _, raw := range []string{"file:///etc/passwd", "chrome://settings", "javascript:alert(1)", "not a url"} {
		assert.False(t, f.guard.Accept(testContext(), topLevel(raw)), raw)
	}
	f.sched.Drain()
	presenter.AssertNotCalled(t, "ShowDomainDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterceptNavigation_PromptAllowOnceRetriesInOriginatingContext(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	presenter, prompts, callbacks := capturePresenter(t)
	f.guard.SetPresenter(presenter)

	req := topLevel("https://example.org/article")
	assert.False(t, f.guard.Accept(ctx, req))
	f.sched.Drain()

	require.Len(t, *prompts, 1)
	assert.Equal(t, "example.org", (*prompts)[0].Host)
	assert.Equal(t, req.ContextID, (*prompts)[0].ContextID)

	(*callbacks)[0](entity.DomainDecisionAllowOnce)
	f.sched.Drain()

	require.Len(t, f.loader.calls, 1)
	assert.Equal(t, loadCall{workspaceID: 1, contextID: "ws1-ctx1", url: req.URL}, f.loader.calls[0])
	assert.Equal(t, []string{"example.org"}, f.allowlist.SessionDomains())
	assert.True(t, f.guard.Accept(ctx, req), "retry passes without a second prompt")
	assert.Equal(t, 1, f.pub.count(entity.EventAllowlistChanged))
}

func TestInterceptNavigation_PromptAlwaysAllowPersists(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	f.repo.EXPECT().Save(mock.Anything, []string{"example.org"}).Return(nil).Once()
	presenter, _, callbacks := capturePresenter(t)
	f.guard.SetPresenter(presenter)

	f.guard.Accept(ctx, topLevel("https://example.org"))
	f.sched.Drain()
	require.Len(t, *callbacks, 1)

	(*callbacks)[0](entity.DomainDecisionAlwaysAllow)
	f.sched.Drain()

	assert.Equal(t, []string{"example.org"}, f.allowlist.UserDomains())
	assert.Len(t, f.loader.calls, 1)
}

func TestInterceptNavigation_AlwaysAllowSaveFailureStillRetries(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	f.repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("permission denied"))
	presenter, _, callbacks := capturePresenter(t)
	f.guard.SetPresenter(presenter)

	f.guard.Accept(ctx, topLevel("https://example.org"))
	f.sched.Drain()
	(*callbacks)[0](entity.DomainDecisionAlwaysAllow)
	f.sched.Drain()

	assert.Len(t, f.loader.calls, 1)
	assert.False(t, f.guard.Check("https://example.org").Blocked)
}

func TestInterceptNavigation_CancelLeavesHostBlocked(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	presenter, prompts, callbacks := capturePresenter(t)
	f.guard.SetPresenter(presenter)

	f.guard.Accept(ctx, topLevel("https://example.org"))
	f.sched.Drain()
	(*callbacks)[0](entity.DomainDecisionCancel)
	// a late second answer from the same dialog is ignored
	(*callbacks)[0](entity.DomainDecisionAllowOnce)
	f.sched.Drain()

	assert.Empty(t, f.loader.calls)
	assert.True(t, f.guard.Check("https://example.org").Blocked)

	f.guard.Accept(ctx, topLevel("https://example.org"))
	f.sched.Drain()
	assert.Len(t, *prompts, 2, "the host can be asked about again after an answer")
}

func TestInterceptNavigation_OnePromptPerPendingHost(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	presenter, prompts, _ := capturePresenter(t)
	f.guard.SetPresenter(presenter)

	f.guard.Accept(ctx, topLevel("https://example.org/a"))
	f.guard.Accept(ctx, topLevel("https://example.org/b"))
	f.guard.Accept(ctx, topLevel("https://other.net"))
	f.sched.Drain()

	require.Len(t, *prompts, 2)
	assert.Equal(t, "example.org", (*prompts)[0].Host)
	assert.Equal(t, "other.net", (*prompts)[1].Host)
}

func TestInterceptNavigation_SubframesNeverPrompt(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	presenter := portmocks.NewMockDomainDecisionPresenter(t)
	f.guard.SetPresenter(presenter)

	req := topLevel("https://ads.example.org/frame")
	req.TopLevel = false
	assert.False(t, f.guard.Accept(ctx, req))
	f.sched.Drain()
	presenter.AssertNotCalled(t, "ShowDomainDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterceptNavigation_NoPresenterCancels(t *testing.T) {
	ctx := testContext()
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())

	assert.False(t, f.guard.Accept(ctx, topLevel("https://example.org")))
	f.sched.Drain()
	assert.Empty(t, f.loader.calls)
}

func TestInterceptNavigation_OAuthKeptInContextByDefault(t *testing.T) {
	f := newGuardFixture(t, navigation.DefaultOAuthPolicy())
	opener := portmocks.NewMockExternalOpener(t)
	f.guard.SetOpener(opener)

	ok := f.guard.Accept(testContext(), topLevel("https://accounts.google.com/o/oauth2/v2/auth?response_type=code"))
	f.sched.Drain()

	assert.True(t, ok)
	opener.AssertNotCalled(t, "OpenURL", mock.Anything, mock.Anything)
}

func TestInterceptNavigation_OAuthExternalMode(t *testing.T) {
	ctx := testContext()
	policy := navigation.DefaultOAuthPolicy()
	policy.Mode = entity.OAuthModeExternal
	f := newGuardFixture(t, policy)

	loginURL := "https://accounts.google.com/o/oauth2/v2/auth?response_type=code"
	opener := portmocks.NewMockExternalOpener(t)
	opener.EXPECT().OpenURL(mock.Anything, loginURL).Return(nil).Once()
	f.guard.SetOpener(opener)

	assert.False(t, f.guard.Accept(ctx, topLevel(loginURL)))
	f.sched.Drain()
	assert.Empty(t, f.loader.calls)
}

func TestInterceptNavigation_OAuthExternalFailureFallsBackToContext(t *testing.T) {
	ctx := testContext()
	policy := navigation.DefaultOAuthPolicy()
	policy.Mode = entity.OAuthModeExternal
	f := newGuardFixture(t, policy)

	loginURL := "https://accounts.google.com/signin/v2?response_type=code"
	opener := portmocks.NewMockExternalOpener(t)
	opener.EXPECT().OpenURL(mock.Anything, loginURL).Return(errors.New("no browser")).Once()
	f.guard.SetOpener(opener)

	assert.False(t, f.guard.Accept(ctx, topLevel(loginURL)))
	f.sched.Drain()

	require.Len(t, f.loader.calls, 1)
	assert.True(t, f.guard.Accept(ctx, topLevel(loginURL)), "retry is let through once")
	assert.False(t, f.guard.Accept(ctx, topLevel(loginURL)), "bypass is single use")
}

func TestInterceptNavigation_OAuthExternalWithoutOpenerAllows(t *testing.T) {
	policy := navigation.DefaultOAuthPolicy()
	policy.Mode = entity.OAuthModeExternal
	f := newGuardFixture(t, policy)

	assert.True(t, f.guard.Accept(testContext(), topLevel("https://accounts.google.com/o/oauth2/auth?response_type=code")))
}
