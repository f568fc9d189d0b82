package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/infrastructure/engine/stub"
	"github.com/bnema/siteshell/internal/logging"
	"github.com/stretchr/testify/require"
)

const defaultURL = "https://chatgpt.com"

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (p *recordingPublisher) Publish(e entity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) names() []entity.EventName {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.EventName, len(p.events))
	for i, e := range p.events {
		out[i] = e.Name
	}
	return out
}

func (p *recordingPublisher) count(name entity.EventName) int {
	n := 0
	for _, got := range p.names() {
		if got == name {
			n++
		}
	}
	return n
}

// acceptAll lets every navigation through and ignores page events.
type acceptAll struct{}

func (acceptAll) TitleChanged(entity.ContextID, string) {}
func (acceptAll) URLChanged(entity.ContextID, string) {}
func (acceptAll) LoadFinished(entity.ContextID, bool) {}
func (acceptAll) AcceptNavigation(entity.ContextID, string, bool) bool { return true }

func newTabFixture(t *testing.T, limits usecase.TabLimits) (*usecase.TabController, *stub.Profile, *recordingPublisher) {
	t.Helper()
	engine := stub.New()
	profile, err := engine.OpenProfile(testContext(), 0, t.TempDir(), acceptAll{})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	tc := usecase.NewTabController(0, profile, pub, defaultURL, limits)
	return tc, profile.(*stub.Profile), pub
}
