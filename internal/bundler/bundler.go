// Package bundler reaches the managed-side bundlers through a uniform
// gateway. Each adapter spawns the bundler tool shipped with the bundler
// package and demands a single unminified ES-module chunk.
package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// Gateway is the capability every bundler implementation fulfills.
type Gateway interface {
	// Init probes the bundler tool.
	Init(ctx context.Context) error

	// Bundle produces a single ES-module bundle for the entry point and
	// returns its path.
	Bundle(ctx context.Context, entry string) (string, error)
}

// OutputName is the artifact every gateway must produce in the gen
// folder.
const OutputName = "bundle.js"

// New selects the adapter for a bundler package by name.
func New(name, packageFolder, genFolder string, runner toolchain.Runner) (Gateway, error) {
	base := tool{packageFolder: packageFolder, genFolder: genFolder, runner: runner}

	switch name {
	case "@yaje/esbuild":
		return &esbuild{tool: base.named("esbuild")}, nil
	case "@yaje/rollup":
		return &rollup{tool: base.named("rollup")}, nil
	case "@yaje/vite":
		return &vite{tool: base.named("vite")}, nil
	case "@yaje/webpack":
		return &webpack{tool: base.named("webpack")}, nil
	}

	return nil, fmt.Errorf("package %s is not a recognized bundler", name)
}

// tool is the shared adapter state: where the bundler package lives,
// where output goes, and how to spawn the executable.
type tool struct {
	name          string
	packageFolder string
	genFolder     string
	runner        toolchain.Runner
}

func (t tool) named(name string) tool {
	t.name = name
	return t
}

// bin locates the bundler executable: the package's own node_modules/.bin
// first, then enclosing ones, then PATH.
func (t tool) bin() string {
	dir := t.packageFolder
	for {
		candidate := filepath.Join(dir, "node_modules", ".bin", t.name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return t.name
}

func (t tool) probe(ctx context.Context) error {
	if _, _, err := t.runner.Run(ctx, t.bin(), []string{"--version"}, nil); err != nil {
		return fmt.Errorf("bundler tool %s is not available: %w", t.name, err)
	}

	return nil
}

func (t tool) run(ctx context.Context, args []string) error {
	_, stderr, err := t.runner.Run(ctx, t.bin(), args, nil)
	if err != nil {
		return &toolchain.ToolError{Tool: t.name, Args: args, Stderr: string(stderr), Err: err}
	}

	return nil
}

// output verifies the contract: exactly one .js artifact, at the agreed
// path.
func (t tool) output() (string, error) {
	entries, err := os.ReadDir(t.genFolder)
	if err != nil {
		return "", err
	}

	var scripts []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".js") {
			scripts = append(scripts, e.Name())
		}
	}

	if len(scripts) != 1 || scripts[0] != OutputName {
		return "", fmt.Errorf("bundler %s produced %d .js artifacts, expected exactly %s", t.name, len(scripts), OutputName)
	}

	return filepath.Join(t.genFolder, OutputName), nil
}
