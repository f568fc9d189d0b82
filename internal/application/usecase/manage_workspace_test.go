package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceController_RestoreWithoutContextsKeepsOneTab(t *testing.T) {
	ctx := testContext()
	tc, profile, pub := newTabFixture(t, usecase.TabLimits{})
	ws := usecase.NewWorkspaceController(2, tc, pub)
	profile.FailNewContext(errors.New("browser exited"))

	ws.Restore(ctx, entity.DefaultWorkspace(2, defaultURL))

	snap := ws.Snapshot()
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, defaultURL, snap.Tabs[0].URL)
	assert.Equal(t, 0, snap.ActiveTabIndex)
	assert.False(t, ws.Tabs().Close(ctx, 0))
}

func TestWorkspaceController_SnapshotTruncatesTitles(t *testing.T) {
	ctx := testContext()
	ws, _ := newWorkspaceFixture(t)
	long := strings.Repeat("Conversation about Go ", 3)
	want := entity.TruncateTitle(long)

	ws.Restore(ctx, &entity.WorkspaceSnapshot{ID: 2, Tabs: []entity.TabSnapshot{{URL: "https://chatgpt.com/c/1"}}})
	id := ws.Tabs().Tabs()[0].ID
	require.True(t, ws.Tabs().HandleTitleChanged(ctx, id, long))

	snap := ws.Snapshot()
	assert.Equal(t, want, snap.Tabs[0].Title)
	assert.Len(t, []rune(snap.Tabs[0].Title), entity.TitleDisplayLimit+3)

	other, _ := newWorkspaceFixture(t)
	other.Restore(ctx, snap)
	assert.Equal(t, snap, other.Snapshot())
}

func newWorkspaceFixture(t *testing.T) (*usecase.WorkspaceController, *recordingPublisher) {
	t.Helper()
	tc, _, pub := newTabFixture(t, usecase.TabLimits{})
	return usecase.NewWorkspaceController(2, tc, pub), pub
}

func TestWorkspaceController_DefaultName(t *testing.T) {
	ws, _ := newWorkspaceFixture(t)
	assert.Equal(t, "Workspace 3", ws.Name())
	assert.Equal(t, entity.WorkspaceID(2), ws.ID())
}

func TestWorkspaceController_SnapshotRestoreRoundTrip(t *testing.T) {
	ctx := testContext()
	ws, _ := newWorkspaceFixture(t)

	in := &entity.WorkspaceSnapshot{
		ID:   2,
		Name: "Research",
		Tabs: []entity.TabSnapshot{
			{URL: "https://chatgpt.com/c/1", Title: "One"},
			{URL: "https://chatgpt.com/c/2", Title: "Two"},
			{URL: "https://chatgpt.com/c/3", Title: "Three"},
		},
		ActiveTabIndex:   1,
		NoteContent:      "# todo\n- read",
		NotePanelVisible: true,
	}
	ws.Restore(ctx, in)

	out := ws.Snapshot()
	assert.Equal(t, in, out)
}

func TestWorkspaceController_RestoreClampsAndEnsuresOneTab(t *testing.T) {
	ctx := testContext()
	ws, _ := newWorkspaceFixture(t)

	ws.Restore(ctx, &entity.WorkspaceSnapshot{ID: 2, Name: "", ActiveTabIndex: 4})

	snap := ws.Snapshot()
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, defaultURL, snap.Tabs[0].URL)
	assert.Equal(t, 0, snap.ActiveTabIndex)
	assert.Equal(t, "Workspace 3", snap.Name)
	assert.Empty(t, snap.NoteContent)
	assert.False(t, snap.NotePanelVisible)
}

func TestWorkspaceController_Rename(t *testing.T) {
	ctx := testContext()
	ws, pub := newWorkspaceFixture(t)

	assert.True(t, ws.Rename(ctx, "  Drafts "))
	assert.Equal(t, "Drafts", ws.Name())
	assert.False(t, ws.Rename(ctx, "   "), "blank names are rejected")
	assert.False(t, ws.Rename(ctx, "Drafts"), "same name is not a change")
	assert.Equal(t, 1, pub.count(entity.EventWorkspaceRenamed))
}

func TestWorkspaceController_NotePanel(t *testing.T) {
	ctx := testContext()
	ws, pub := newWorkspaceFixture(t)

	assert.True(t, ws.ToggleNotePanel(ctx))
	assert.False(t, ws.ToggleNotePanel(ctx))
	assert.Equal(t, 2, pub.count(entity.EventNotePanelToggled))

	assert.True(t, ws.SetNoteContent(ctx, "hello"))
	assert.False(t, ws.SetNoteContent(ctx, "hello"))
	assert.Equal(t, "hello", ws.NoteContent())
	assert.Equal(t, 1, pub.count(entity.EventNoteChanged))
}
