package cfg

import (
	"fmt"
	"os"
	"regexp"

	"github.com/dop251/goja"

	"github.com/CBx0-dev/YAJE/internal/target"
)

// scriptConfig is the configuration object handed to yaje.build.js. Field
// and method names reach the script uncapitalized (addSource, arch, ...).
type scriptConfig struct {
	b *Builder

	Arch     *archPredicates
	Vendor   *vendorPredicates
	Platform *platformPredicates
	Abi      *abiPredicates
}

type archPredicates struct{ t target.Triple }

func (a *archPredicates) IsX64() bool      { return a.t.Arch == "x86_64" }
func (a *archPredicates) IsI686() bool     { return a.t.Arch == "i686" }
func (a *archPredicates) IsAArch64() bool  { return a.t.Arch == "aarch64" }
func (a *archPredicates) IsArmv7() bool    { return a.t.Arch == "armv7" }
func (a *archPredicates) Is(s string) bool { return a.t.Arch == s }

type vendorPredicates struct{ t target.Triple }

func (v *vendorPredicates) Is(s string) bool { return v.t.Vendor == s }

type platformPredicates struct{ t target.Triple }

func (p *platformPredicates) IsWindows() bool  { return p.t.Platform == target.Windows }
func (p *platformPredicates) IsLinux() bool    { return p.t.Platform == target.Linux }
func (p *platformPredicates) IsDarwin() bool   { return p.t.Platform == target.Darwin }
func (p *platformPredicates) Is(s string) bool { return p.t.Platform == s }

type abiPredicates struct{ t target.Triple }

func (a *abiPredicates) IsMSVC() bool     { return a.t.Abi == "msvc" }
func (a *abiPredicates) IsMusl() bool     { return a.t.Abi == "musl" }
func (a *abiPredicates) IsGNU() bool      { return a.t.Abi == "gnu" }
func (a *abiPredicates) Is(s string) bool { return a.t.Abi == s }

func (c *scriptConfig) AddSource(path string, recursive ...bool) {
	c.b.AddSource(path, len(recursive) > 0 && recursive[0])
}

func (c *scriptConfig) AddIncludeDir(path string) { c.b.AddIncludeDir(path) }

func (c *scriptConfig) AddLibraryLookup(path string) { c.b.AddLibraryLookup(path) }

func (c *scriptConfig) DefineMacro(name string, value goja.Value) {
	c.b.DefineMacro(name, value.Export())
}

func (c *scriptConfig) LinkLibrary(name string) { c.b.LinkLibrary(name) }

func (c *scriptConfig) SetLoadingFunctions(names ...string) { c.b.SetLoadingFunctions(names...) }

func (c *scriptConfig) SetCFlags(flags ...string) { c.b.SetCFlags(flags...) }

func (c *scriptConfig) SetLFlags(flags ...string) { c.b.SetLFlags(flags...) }

func (c *scriptConfig) Complete() *Result {
	res, _ := c.b.Complete()
	return res
}

// The interpreter evaluates classic scripts, so the single module-level
// default export is rewritten to an assignment the host can read back.
var exportDefault = regexp.MustCompile(`(?m)^\s*export\s+default\s+`)

const defaultSlot = "__yaje_default"

// evalScript runs a yaje.build.js / yaje.build.mjs and returns the
// completed configuration of its default export.
func evalScript(path string, ctx Context) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	b, err := NewBuilder(ctx)
	if err != nil {
		return nil, err
	}

	loc := exportDefault.FindIndex(src)
	if loc == nil {
		return nil, fmt.Errorf("%s has no default export", path)
	}
	rewritten := string(src[:loc[0]]) + defaultSlot + " = " + string(src[loc[1]:])

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	conf := &scriptConfig{
		b:        b,
		Arch:     &archPredicates{ctx.Target},
		Vendor:   &vendorPredicates{ctx.Target},
		Platform: &platformPredicates{ctx.Target},
		Abi:      &abiPredicates{ctx.Target},
	}
	if err := vm.Set("cfg", conf); err != nil {
		return nil, err
	}

	if _, err := vm.RunScript(path, rewritten); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}

	exported := vm.Get(defaultSlot)
	if exported == nil || goja.IsUndefined(exported) || goja.IsNull(exported) {
		return nil, fmt.Errorf("%s has no default export", path)
	}

	got, ok := exported.Export().(*scriptConfig)
	if !ok || got != conf {
		return nil, fmt.Errorf("%s: default export is not the configuration object", path)
	}

	res, err := b.Complete()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}
