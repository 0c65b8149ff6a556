package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "clang", cfg.ClangPath)
	assert.Equal(t, "llvm-ar", cfg.ArPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.NotEmpty(t, cfg.Triple.Arch, "empty target resolves to the host triple")
}

func TestLoadExplicitTarget(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("target", "aarch64-unknown-linux-musl")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "aarch64", cfg.Triple.Arch)
	assert.Equal(t, "musl", cfg.Triple.Abi)
}

func TestLoadInvalidTarget(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("target", "bogus")
	_, err := Load()
	assert.Error(t, err)
}

func TestFindLocalConfig(t *testing.T) {
	tempDir := t.TempDir()
	subDir := filepath.Join(tempDir, "subdir")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	configYML := filepath.Join(subDir, ".yaje.yml")
	require.NoError(t, os.WriteFile(configYML, []byte("target: \"x86_64-linux\""), 0o644))

	// found in the directory itself
	assert.Equal(t, configYML, FindLocalConfig(subDir))

	// found by walking up
	assert.Equal(t, configYML, FindLocalConfig(filepath.Join(subDir, "deep")))

	// not found above it
	assert.Equal(t, "", FindLocalConfig(tempDir))
}
