// Package pkg tracks discovered packages and their native build
// instructions for the duration of a build.
package pkg

import (
	"fmt"

	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/manifest"
)

// CoreName is the package providing the script-engine runtime. Every
// build must discover it.
const CoreName = "@yaje/core"

// TrackedPackage is the record kept per discovered package.
type TrackedPackage struct {
	Manifest *manifest.Manifest
	Folder   string

	// IsNative is true iff a build-configuration file exists and
	// evaluated to Instructions.
	IsNative  bool
	IsBundler bool

	Instructions *cfg.Result
}

// Collection maps package names to tracked packages, iterable in
// insertion order.
type Collection struct {
	order    []string
	packages map[string]*TrackedPackage
}

func NewCollection() *Collection {
	return &Collection{packages: map[string]*TrackedPackage{}}
}

func (c *Collection) Has(name string) bool {
	_, ok := c.packages[name]
	return ok
}

func (c *Collection) Get(name string) (*TrackedPackage, bool) {
	p, ok := c.packages[name]
	return p, ok
}

// Set inserts or replaces a package. Replacement keeps the original
// position in iteration order.
func (c *Collection) Set(name string, p *TrackedPackage) {
	if !c.Has(name) {
		c.order = append(c.order, name)
	}

	c.packages[name] = p
}

// Names returns package names in insertion order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.order...)
}

// All returns tracked packages in insertion order.
func (c *Collection) All() []*TrackedPackage {
	out := make([]*TrackedPackage, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.packages[name])
	}

	return out
}

// Core returns the runtime package, which must be present and native.
func (c *Collection) Core() (*TrackedPackage, error) {
	p, ok := c.packages[CoreName]
	if !ok {
		return nil, fmt.Errorf("package %s was not discovered", CoreName)
	}
	if !p.IsNative {
		return nil, fmt.Errorf("package %s has no native build configuration", CoreName)
	}

	return p, nil
}

// Bundler returns the first package flagged as a bundler.
func (c *Collection) Bundler() (*TrackedPackage, error) {
	for _, name := range c.order {
		if c.packages[name].IsBundler {
			return c.packages[name], nil
		}
	}

	return nil, fmt.Errorf("no bundler package in the dependency graph")
}

// dependsOnCore reports whether the named package transitively depends
// on the core runtime through tracked manifests.
func (c *Collection) dependsOnCore(name string) bool {
	if name == CoreName {
		return true
	}

	seen := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		p, ok := c.packages[cur]
		if !ok {
			continue
		}

		for _, dep := range p.Manifest.DependencyNames() {
			if dep == CoreName {
				return true
			}
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return false
}

// NativeModules returns, in discovery order, every native package that
// participates in native compilation: the core itself plus native
// packages transitively depending on it. Native packages outside the
// core's reach stay registered but contribute no code.
func (c *Collection) NativeModules() []*TrackedPackage {
	var out []*TrackedPackage
	for _, name := range c.order {
		p := c.packages[name]
		if p.IsNative && c.dependsOnCore(name) {
			out = append(out, p)
		}
	}

	return out
}

// NativeDependencies returns the transitive native dependencies of the
// named package, excluding the package itself, in discovery order.
func (c *Collection) NativeDependencies(name string) []*TrackedPackage {
	reachable := map[string]bool{}

	var visit func(string)
	visit = func(cur string) {
		p, ok := c.packages[cur]
		if !ok {
			return
		}
		for _, dep := range p.Manifest.DependencyNames() {
			if !reachable[dep] {
				reachable[dep] = true
				visit(dep)
			}
		}
	}
	visit(name)

	var out []*TrackedPackage
	for _, n := range c.order {
		if n == name || !reachable[n] {
			continue
		}
		if p := c.packages[n]; p.IsNative {
			out = append(out, p)
		}
	}

	return out
}
