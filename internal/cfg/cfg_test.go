package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CBx0-dev/YAJE/internal/target"
)

var linuxTriple = target.Triple{Arch: "x86_64", Vendor: "unknown", Platform: "linux", Abi: "gnu"}

func testContext(t *testing.T) Context {
	t.Helper()
	return Context{
		PackageDir: t.TempDir(),
		ModuleName: "@yaje/fs",
		Target:     linuxTriple,
	}
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(Context{Target: linuxTriple})
	assert.Error(t, err, "package directory is required")

	_, err = NewBuilder(Context{PackageDir: t.TempDir()})
	assert.Error(t, err, "target is required")
}

func TestAddSource(t *testing.T) {
	ctx := testContext(t)

	native := filepath.Join(ctx.PackageDir, "native")
	nested := filepath.Join(native, "posix")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	for _, name := range []string{"native/b.c", "native/a.c", "native/a.h", "native/posix/deep.c"} {
		require.NoError(t, os.WriteFile(filepath.Join(ctx.PackageDir, name), []byte("int x;"), 0o644))
	}

	t.Run("top level only", func(t *testing.T) {
		b, err := NewBuilder(ctx)
		require.NoError(t, err)

		b.AddSource("native", false)
		res, err := b.Complete()
		require.NoError(t, err)

		assert.Equal(t, []string{
			filepath.Join(native, "a.c"),
			filepath.Join(native, "b.c"),
		}, res.Sources)
	})

	t.Run("recursive", func(t *testing.T) {
		b, err := NewBuilder(ctx)
		require.NoError(t, err)

		b.AddSource("native", true)
		res, err := b.Complete()
		require.NoError(t, err)

		assert.Equal(t, []string{
			filepath.Join(native, "a.c"),
			filepath.Join(native, "b.c"),
			filepath.Join(nested, "deep.c"),
		}, res.Sources)
	})

	t.Run("no duplicates", func(t *testing.T) {
		b, err := NewBuilder(ctx)
		require.NoError(t, err)

		b.AddSource("native", false)
		b.AddSource("native", true)
		res, err := b.Complete()
		require.NoError(t, err)
		assert.Len(t, res.Sources, 3)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		b, err := NewBuilder(ctx)
		require.NoError(t, err)

		b.AddSource("nope", false)
		_, err = b.Complete()
		assert.Error(t, err)
	})
}

func TestDefineMacro(t *testing.T) {
	b, err := NewBuilder(testContext(t))
	require.NoError(t, err)

	b.DefineMacro("DEBUG", true)
	b.DefineMacro("VERSION", "1.2")
	b.DefineMacro("LIMIT", int64(42))
	b.DefineMacro("RATIO", 0.5)

	res, err := b.Complete()
	require.NoError(t, err)
	require.Len(t, res.DefineMacros, 4)

	defines := make([]string, len(res.DefineMacros))
	for i, m := range res.DefineMacros {
		defines[i], err = m.Define()
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"DEBUG", `VERSION="1.2"`, "LIMIT=42", "RATIO=0.5"}, defines)
}

func TestDefineMacroErrors(t *testing.T) {
	t.Run("false value", func(t *testing.T) {
		b, err := NewBuilder(testContext(t))
		require.NoError(t, err)

		b.DefineMacro("DEBUG", false)
		_, err = b.Complete()
		assert.Error(t, err)
	})

	t.Run("bad name", func(t *testing.T) {
		b, err := NewBuilder(testContext(t))
		require.NoError(t, err)

		b.DefineMacro("1BAD", true)
		_, err = b.Complete()
		assert.Error(t, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		b, err := NewBuilder(testContext(t))
		require.NoError(t, err)

		b.DefineMacro("X", []string{"nope"})
		_, err = b.Complete()
		assert.Error(t, err)
	})
}

func TestDefineMacroRedefinitionKeepsPosition(t *testing.T) {
	b, err := NewBuilder(testContext(t))
	require.NoError(t, err)

	b.DefineMacro("A", true)
	b.DefineMacro("B", true)
	b.DefineMacro("A", "two")

	res, err := b.Complete()
	require.NoError(t, err)
	require.Len(t, res.DefineMacros, 2)
	assert.Equal(t, "A", res.DefineMacros[0].Name)
	assert.Equal(t, "two", res.DefineMacros[0].Value)
}

func TestSetLoadingFunctions(t *testing.T) {
	b, err := NewBuilder(testContext(t))
	require.NoError(t, err)

	b.SetLoadingFunctions("yaje_fs_init", "yaje_fs_sync_init")
	res, err := b.Complete()
	require.NoError(t, err)
	assert.Equal(t, []string{"yaje_fs_init", "yaje_fs_sync_init"}, res.LoadingFunctions)

	b2, err := NewBuilder(testContext(t))
	require.NoError(t, err)
	b2.SetLoadingFunctions("not a symbol")
	_, err = b2.Complete()
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Find(dir))

	hcl := filepath.Join(dir, "yaje.build.hcl")
	require.NoError(t, os.WriteFile(hcl, nil, 0o644))
	assert.Equal(t, hcl, Find(dir))

	// the js form wins over hcl
	js := filepath.Join(dir, "yaje.build.js")
	require.NoError(t, os.WriteFile(js, nil, 0o644))
	assert.Equal(t, js, Find(dir))
}
