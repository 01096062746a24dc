package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourcesDefaults(t *testing.T) {
	sources, err := LoadSources("")
	require.NoError(t, err)
	assert.NotEmpty(t, sources)
	assert.Equal(t, "goldbox", sources[0].Name)
}

func TestLoadSourcesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	yaml := `sources:
  - name: first
    url: https://example.com/deals
  - name: second
    url: https://example.com/sale
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "first", sources[0].Name)
	assert.Equal(t, "https://example.com/deals", sources[0].URL)
	assert.Equal(t, "second", sources[1].Name)
}

func TestLoadSourcesErrors(t *testing.T) {
	// Missing file
	_, err := LoadSources("does-not-exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()

	// Empty source list
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("sources: []\n"), 0o644))
	_, err = LoadSources(empty)
	assert.Error(t, err)

	// Source missing a URL
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sources:\n  - name: broken\n"), 0o644))
	_, err = LoadSources(bad)
	assert.Error(t, err)
}
