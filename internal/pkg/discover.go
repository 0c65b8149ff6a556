package pkg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/manifest"
	"github.com/CBx0-dev/YAJE/internal/target"
)

// Discover walks the dependency graph starting at the project root,
// depth-first in manifest-declaration order, deduplicating on package
// name. Returns the root package name.
func Discover(root string, t target.Triple, col *Collection, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	return discover(abs, t, col, log)
}

func discover(dir string, t target.Triple, col *Collection, log *slog.Logger) (string, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return "", err
	}

	tracked := &TrackedPackage{
		Manifest:  m,
		Folder:    dir,
		IsBundler: m.Bundler,
	}
	col.Set(m.Name, tracked)

	if file := cfg.Find(dir); file != "" {
		res, err := cfg.Eval(file, cfg.Context{
			PackageDir: dir,
			ModuleName: m.Name,
			Target:     t,
		})
		if err != nil {
			return "", fmt.Errorf("package %s: %w", m.Name, err)
		}

		tracked.IsNative = true
		tracked.Instructions = res
		log.Debug("native package", "name", m.Name, "sources", len(res.Sources))
	}

	for _, dep := range m.DependencyNames() {
		if col.Has(dep) {
			// back-edge; cycles are tolerated by name dedup
			log.Debug("dependency already tracked", "package", m.Name, "dependency", dep)
			continue
		}

		depDir, err := resolve(dir, dep)
		if err != nil {
			return "", fmt.Errorf("package %s: %w", m.Name, err)
		}

		if _, err := discover(depDir, t, col, log); err != nil {
			return "", err
		}

		if resolved, ok := col.Get(dep); ok {
			if satisfied, err := resolved.Manifest.Satisfies(m.Dependencies[dep]); err == nil && !satisfied {
				log.Warn("resolved version does not satisfy range",
					"package", m.Name, "dependency", dep,
					"range", m.Dependencies[dep], "version", resolved.Manifest.Version)
			}
		}
	}

	return m.Name, nil
}

// resolve locates a dependency's folder by walking parent directories
// looking for node_modules/<name>.
func resolve(start, name string) (string, error) {
	dir := start
	for {
		candidate := filepath.Join(dir, "node_modules", name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", fmt.Errorf("cannot resolve dependency %s: no enclosing node_modules/%s", name, name)
}
