package bundler

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner emulates the bundler tool: it writes the configured files
// into the gen folder when invoked for a bundle.
type fakeRunner struct {
	calls   [][]string
	names   []string
	produce map[string]string // file name -> content, written on bundle runs
	gen     string
	fail    bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ io.Reader) ([]byte, []byte, error) {
	f.names = append(f.names, name)
	f.calls = append(f.calls, args)

	if f.fail {
		return nil, []byte("bundler exploded"), errors.New("exit status 1")
	}

	if len(args) == 1 && args[0] == "--version" {
		return []byte("0.0.0"), nil, nil
	}

	for name, content := range f.produce {
		if err := os.WriteFile(filepath.Join(f.gen, name), []byte(content), 0o644); err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, nil
}

func newFixture(t *testing.T, produce map[string]string) (*fakeRunner, string, string) {
	t.Helper()
	gen := t.TempDir()
	pkgDir := t.TempDir()
	return &fakeRunner{produce: produce, gen: gen}, pkgDir, gen
}

func TestUnknownBundler(t *testing.T) {
	_, err := New("@acme/parcel", "/pkg", "/gen", nil)
	assert.ErrorContains(t, err, "@acme/parcel")
}

func TestEsbuildBundle(t *testing.T) {
	runner, pkgDir, gen := newFixture(t, map[string]string{OutputName: "export{};"})

	gw, err := New("@yaje/esbuild", pkgDir, gen, runner)
	require.NoError(t, err)

	require.NoError(t, gw.Init(context.Background()))

	out, err := gw.Bundle(context.Background(), "/proj/src/index.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gen, OutputName), out)

	// version probe then the bundle run
	require.Len(t, runner.calls, 2)
	bundleArgs := runner.calls[1]
	assert.Equal(t, "/proj/src/index.js", bundleArgs[0])
	assert.Contains(t, bundleArgs, "--bundle")
	assert.Contains(t, bundleArgs, "--format=esm")
}

func TestEsbuildArtifactContract(t *testing.T) {
	t.Run("no artifact", func(t *testing.T) {
		runner, pkgDir, gen := newFixture(t, nil)
		gw, err := New("@yaje/esbuild", pkgDir, gen, runner)
		require.NoError(t, err)

		_, err = gw.Bundle(context.Background(), "/proj/index.js")
		assert.ErrorContains(t, err, "expected exactly")
	})

	t.Run("extra chunk", func(t *testing.T) {
		runner, pkgDir, gen := newFixture(t, map[string]string{
			OutputName: "export{};",
			"chunk.js":  "export{};",
		})
		gw, err := New("@yaje/esbuild", pkgDir, gen, runner)
		require.NoError(t, err)

		_, err = gw.Bundle(context.Background(), "/proj/index.js")
		assert.ErrorContains(t, err, "2 .js artifacts")
	})
}

func TestBundleFailureSurfacesStderr(t *testing.T) {
	runner, pkgDir, gen := newFixture(t, nil)
	runner.fail = true

	gw, err := New("@yaje/rollup", pkgDir, gen, runner)
	require.NoError(t, err)

	_, err = gw.Bundle(context.Background(), "/proj/index.js")
	assert.ErrorContains(t, err, "bundler exploded")
}

func TestBinPrefersLocalInstall(t *testing.T) {
	runner, pkgDir, gen := newFixture(t, map[string]string{OutputName: "export{};"})

	binDir := filepath.Join(pkgDir, "node_modules", ".bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	local := filepath.Join(binDir, "esbuild")
	require.NoError(t, os.WriteFile(local, []byte("#!/bin/sh\n"), 0o755))

	gw, err := New("@yaje/esbuild", pkgDir, gen, runner)
	require.NoError(t, err)

	_, err = gw.Bundle(context.Background(), "/proj/index.js")
	require.NoError(t, err)
	assert.Equal(t, local, runner.names[0])
}

func TestViteWritesConfig(t *testing.T) {
	gen := t.TempDir()
	pkgDir := t.TempDir()

	var sawConfig string
	runner := &fakeRunner{gen: gen}

	// capture the config while the tool "runs", then emit the artifact
	wrapped := &captureRunner{inner: runner, onRun: func() {
		data, _ := os.ReadFile(filepath.Join(gen, "vite.config.mjs"))
		sawConfig = string(data)
		runner.produce = map[string]string{OutputName: "export{};"}
	}}

	gw, err := New("@yaje/vite", pkgDir, gen, wrapped)
	require.NoError(t, err)

	_, err = gw.Bundle(context.Background(), "/proj/index.js")
	require.NoError(t, err)

	assert.Contains(t, sawConfig, "inlineDynamicImports: true")
	assert.Contains(t, sawConfig, "minify: false")
	assert.Contains(t, sawConfig, `"/proj/index.js"`)

	// the temp config is cleaned up, leaving one artifact
	assert.NoFileExists(t, filepath.Join(gen, "vite.config.mjs"))
}

type captureRunner struct {
	inner *fakeRunner
	onRun func()
}

func (c *captureRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	if len(args) > 0 && strings.Contains(strings.Join(args, " "), "--config") {
		c.onRun()
	}
	return c.inner.Run(ctx, name, args, stdin)
}
