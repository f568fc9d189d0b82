package filestore_test

import (
	"os"
	"testing"

	"github.com/bnema/siteshell/internal/infrastructure/persistence/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowlistRepository_MissingFile(t *testing.T) {
	repo := filestore.NewAllowlistRepository(filestore.NewLayout(t.TempDir()))

	domains, err := repo.Load(testCtx())
	require.NoError(t, err)
	assert.Empty(t, domains)
}

func TestAllowlistRepository_SaveLoad(t *testing.T) {
	ctx := testCtx()
	layout := filestore.NewLayout(t.TempDir())
	repo := filestore.NewAllowlistRepository(layout)

	require.NoError(t, repo.Save(ctx, []string{"docs.rs", "github.com"}))

	domains, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.rs", "github.com"}, domains)

	data, err := os.ReadFile(layout.AllowlistFile())
	require.NoError(t, err)
	assert.JSONEq(t, `{"domains":["docs.rs","github.com"]}`, string(data))
}

func TestAllowlistRepository_CorruptFile(t *testing.T) {
	layout := filestore.NewLayout(t.TempDir())
	require.NoError(t, os.WriteFile(layout.AllowlistFile(), []byte(`{"domains": "nope"}`), 0o644))

	_, err := filestore.NewAllowlistRepository(layout).Load(testCtx())
	assert.Error(t, err)
}

func TestLayout_Ensure(t *testing.T) {
	layout := filestore.NewLayout(t.TempDir())
	require.NoError(t, layout.Ensure())

	for _, dir := range []string{layout.ProfileDir(0), layout.ProfileDir(3)} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
