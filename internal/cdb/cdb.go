// Package cdb emits a clang compilation database for the project's
// native modules.
package cdb

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/pkg"
	"github.com/CBx0-dev/YAJE/internal/target"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// Entry is one compile_commands.json record.
type Entry struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file"`
}

// Generate discovers the project and returns a database entry per native
// translation unit, using the same argument assembly as the build.
//
// A project without the core runtime still gets a database for whatever
// native packages exist; the tool is useful even without it.
func Generate(projectDir, clang string, t target.Triple, log *slog.Logger) ([]Entry, error) {
	if log == nil {
		log = slog.Default()
	}

	col := pkg.NewCollection()
	if _, err := pkg.Discover(projectDir, t, col, log); err != nil {
		return nil, err
	}

	if _, err := col.Core(); err != nil {
		log.Debug("core runtime not found, continuing", "error", err)
	}

	base := toolchain.BaseCFlags(t)

	var entries []Entry
	for _, mod := range col.All() {
		if !mod.IsNative {
			continue
		}

		deps := instructions(col.NativeDependencies(mod.Manifest.Name))

		args, err := toolchain.Args(mod.Instructions, deps, base)
		if err != nil {
			return nil, err
		}

		for _, src := range mod.Instructions.Sources {
			arguments := append([]string{clang}, args...)
			arguments = append(arguments, src)

			entries = append(entries, Entry{
				Directory: mod.Folder,
				Arguments: arguments,
				File:      src,
			})
		}
	}

	return entries, nil
}

// Write marshals the database to path.
func Write(entries []Entry, path string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func instructions(packages []*pkg.TrackedPackage) []*cfg.Result {
	out := make([]*cfg.Result, 0, len(packages))
	for _, p := range packages {
		out = append(out, p.Instructions)
	}

	return out
}
