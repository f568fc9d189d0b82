package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "json", Output: &buf})

	ctx := WithContext(context.Background(), logger)
	ctx = WithComponent(ctx, "tabs")
	ctx = WithWorkspaceID(ctx, 2)

	FromContext(ctx).Info().Msg("tab opened")
	FromContext(ctx).Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"component":"tabs"`)
	assert.Contains(t, out, `"workspace_id":2`)
	assert.Contains(t, out, `"message":"tab opened"`)
	assert.NotContains(t, out, "hidden")
}

func TestFromContext_NoLoggerIsNoop(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info().Msg("goes nowhere")
}

func TestFileSink_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenFileSink(dir, 0, 1)
	require.NoError(t, err)
	sink.maxSize = 16

	for i := 0; i < 4; i++ {
		_, err := sink.Write([]byte(strings.Repeat("x", 12)))
		require.NoError(t, err)
	}
	require.NoError(t, sink.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var rotated int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), logFileName+".") {
			rotated++
		}
	}
	assert.Equal(t, 1, rotated)

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Len(t, data, 12)
}
