package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.IsIncreasing(t, sections)
	assert.Contains(t, sections, "[oauth]")
	assert.Contains(t, sections, "[session]")

	var decoded Config
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Equal(t, DefaultConfig().Site, decoded.Site)
	assert.Equal(t, DefaultConfig().Memory, decoded.Memory)
	assert.Equal(t, OAuthModeKeepInContext, decoded.OAuth.Mode)
}

func TestSortTOMLSections(t *testing.T) {
	in := "top = 1\n[zeta]\n  a = 1\n\n[alpha]\n  b = 2\n"
	want := "top = 1\n\n[alpha]\n  b = 2\n\n[zeta]\n  a = 1\n"
	assert.Equal(t, want, sortTOMLSections(in))
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"default_url"`)
	assert.Contains(t, s, `"idle_threshold_sec"`)
	assert.Contains(t, s, `"extra_domains"`)
}
