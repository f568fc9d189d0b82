package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSuspendable struct {
	suspends int
	resumes  int
}

func (c *countingSuspendable) Suspend(context.Context) map[entity.ContextID]string {
	c.suspends++
	return map[entity.ContextID]string{"ctx": "https://chatgpt.com"}
}

func (c *countingSuspendable) Resume(context.Context) int {
	c.resumes++
	return 1
}

func newMemoryFixture(t *testing.T) (*usecase.MemoryManager, *mainloop.ManualScheduler, []*countingSuspendable) {
	t.Helper()
	sched := mainloop.NewManualScheduler(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	mm := usecase.NewMemoryManager(sched, nil, usecase.MemoryConfig{Enabled: true})

	targets := make([]*countingSuspendable, entity.WorkspaceCount)
	for i := range targets {
		targets[i] = &countingSuspendable{}
		mm.Register(entity.WorkspaceID(i), targets[i])
	}
	return mm, sched, targets
}

func TestMemoryManager_CompressesIdleInactiveWorkspacesOnce(t *testing.T) {
	ctx := testContext()
	mm, sched, targets := newMemoryFixture(t)
	mm.Activate(ctx, 0)
	mm.Start(ctx)

	sched.Advance(5 * time.Minute)
	for _, target := range targets {
		assert.Zero(t, target.suspends, "threshold not exceeded yet")
	}

	sched.Advance(time.Minute)
	assert.Zero(t, targets[0].suspends, "active workspace is never compressed")
	for _, target := range targets[1:] {
		assert.Equal(t, 1, target.suspends)
	}

	sched.Advance(30 * time.Minute)
	for _, target := range targets[1:] {
		assert.Equal(t, 1, target.suspends, "compressed exactly once until reactivated")
	}
	assert.Zero(t, targets[0].suspends)

	stats := mm.Stats()
	assert.Equal(t, []entity.WorkspaceID{1, 2, 3}, stats.Compressed)
	assert.Equal(t, entity.WorkspaceID(0), stats.Active)
}

func TestMemoryManager_ActivateRestoresOnceAndResetsIdle(t *testing.T) {
	ctx := testContext()
	mm, sched, targets := newMemoryFixture(t)
	mm.Activate(ctx, 0)

	sched.Advance(10 * time.Minute)
	compressed := mm.Tick(ctx)
	require.Equal(t, []entity.WorkspaceID{1, 2, 3}, compressed)

	assert.True(t, mm.Activate(ctx, 2))
	assert.False(t, mm.IsCompressed(2))
	assert.Equal(t, 1, targets[2].resumes)

	assert.False(t, mm.Activate(ctx, 2), "second activation does not restore again")
	assert.Equal(t, 1, targets[2].resumes)

	// workspace 0 was left just now, so its idle window starts over
	assert.Empty(t, mm.Tick(ctx))
	sched.Advance(5*time.Minute + time.Second)
	assert.Equal(t, []entity.WorkspaceID{0}, mm.Tick(ctx))
}

func TestMemoryManager_TouchResetsIdleTimer(t *testing.T) {
	ctx := testContext()
	mm, sched, targets := newMemoryFixture(t)
	mm.Activate(ctx, 0)

	sched.Advance(4 * time.Minute)
	mm.Touch(3)
	sched.Advance(2 * time.Minute)

	assert.Equal(t, []entity.WorkspaceID{1, 2}, mm.Tick(ctx))
	assert.Zero(t, targets[3].suspends)
}

func TestMemoryManager_DisabledNeverTicks(t *testing.T) {
	ctx := testContext()
	sched := mainloop.NewManualScheduler(time.Now())
	mm := usecase.NewMemoryManager(sched, nil, usecase.MemoryConfig{Enabled: false})
	target := &countingSuspendable{}
	mm.Register(1, target)
	mm.Start(ctx)

	sched.Advance(time.Hour)
	assert.Zero(t, target.suspends)
	assert.Zero(t, sched.PendingTimers())
}
