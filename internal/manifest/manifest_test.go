package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "app",
		"version": "1.2.3",
		"main": "./src/index.js",
		"dependencies": {
			"@yaje/core": "^1",
			"@yaje/vite": "^1",
			"left-pad": "~0.1"
		}
	}`)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name)
	assert.Equal(t, "./src/index.js", m.Main)
	assert.False(t, m.Bundler)
	assert.Equal(t, []string{"@yaje/core", "@yaje/vite", "left-pad"}, m.DependencyNames())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{not json`)
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{"main": "index.js"}`)
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("invalid range", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{"name": "app", "dependencies": {"x": "not-a-range"}}`)
		_, err := Load(dir)
		assert.Error(t, err)
	})
}

func TestBundlerFlag(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"name": "@yaje/vite", "main": "index.js", "bundler": true}`)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, m.Bundler)
}

func TestSatisfies(t *testing.T) {
	m := &Manifest{Name: "@yaje/core", Version: "1.4.0"}

	ok, err := m.Satisfies("^1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Satisfies("^2")
	require.NoError(t, err)
	assert.False(t, ok)

	// no version means no check
	unversioned := &Manifest{Name: "x"}
	ok, err = unversioned.Satisfies("^9")
	require.NoError(t, err)
	assert.True(t, ok)
}
