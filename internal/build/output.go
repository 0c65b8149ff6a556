// Package build orchestrates the native build: per-module compilation,
// bundle embedding, entry-point generation and the final link.
package build

import (
	"os"
	"path/filepath"

	"github.com/CBx0-dev/YAJE/internal/target"
)

// OutputInformation is the read-only key to the derived directories under
// <project>/.yaje/<triple>/.
type OutputInformation struct {
	// Root is <project>/.yaje/<tripleString>; the executable lands here.
	Root string

	// ObjFolder holds per-module object files.
	ObjFolder string

	// ModFolder holds static archives plus the entry and bundle objects.
	ModFolder string

	// GenFolder holds generated C sources and the bundler output.
	GenFolder string

	// CacheFolder holds hash sidecars and the compile ledger.
	CacheFolder string
}

// NewOutputInformation derives the directory set for a project and target.
func NewOutputInformation(projectDir string, t target.Triple) OutputInformation {
	root := filepath.Join(projectDir, ".yaje", t.String())

	return OutputInformation{
		Root:        root,
		ObjFolder:   filepath.Join(root, "obj"),
		ModFolder:   filepath.Join(root, "modules"),
		GenFolder:   filepath.Join(root, "gen"),
		CacheFolder: filepath.Join(root, "cache"),
	}
}

// EnsureAll creates every derived directory; creation is idempotent.
func (o OutputInformation) EnsureAll() error {
	for _, dir := range []string{o.ObjFolder, o.ModFolder, o.GenFolder, o.CacheFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return nil
}

// Executable is the final link destination: <root>/a, with the platform
// suffix.
func (o OutputInformation) Executable(t target.Triple) string {
	return filepath.Join(o.Root, "a"+t.Exe())
}
