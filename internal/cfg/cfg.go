// Package cfg evaluates per-package build-configuration files into a
// normalized native-module description.
//
// Two forms are recognized, searched in order: an ES script
// (yaje.build.js / yaje.build.mjs) executed with an embedded interpreter,
// and a declarative yaje.build.hcl. Both feed the same Builder and
// produce the same Result.
package cfg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/CBx0-dev/YAJE/internal/target"
)

// Context seeds one configuration evaluation. It replaces the process-wide
// state the script API was originally designed around; every evaluation
// gets its own copy.
type Context struct {
	// PackageDir is the folder of the package being configured. Relative
	// path arguments in the configuration resolve against it.
	PackageDir string

	// ModuleName is the package name from the manifest.
	ModuleName string

	Target target.Triple
}

// Macro is one -D entry. Value is a string, a number (float64 or int64),
// or boolean true for a name-only macro.
type Macro struct {
	Name  string
	Value any
}

// Define serializes the macro for the compiler command line.
func (m Macro) Define() (string, error) {
	switch v := m.Value.(type) {
	case bool:
		if !v {
			return "", fmt.Errorf("macro %s: false is not a valid macro value", m.Name)
		}
		return m.Name, nil
	case string:
		return fmt.Sprintf("%s=%q", m.Name, v), nil
	case int64:
		return fmt.Sprintf("%s=%d", m.Name, v), nil
	case float64:
		return m.Name + "=" + strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("macro %s: unsupported value type %T", m.Name, m.Value)
	}
}

// Result is the frozen native-build description for one module.
type Result struct {
	Name             string
	Sources          []string
	IncludeDirs      []string
	DefineMacros     []Macro
	LibraryLookup    []string
	LinkLibraries    []string
	LoadingFunctions []string
	CFlags           []string
	LFlags           []string
}

var cIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Builder accumulates configuration operations and validates them. The
// first failing operation latches; later calls are no-ops and Complete
// reports the error.
type Builder struct {
	ctx Context
	res Result
	err error

	seenSources map[string]bool
}

// NewBuilder fails when the evaluation context is incomplete, mirroring
// the contract that a configuration object cannot exist without a target
// and a package directory.
func NewBuilder(ctx Context) (*Builder, error) {
	if ctx.PackageDir == "" {
		return nil, fmt.Errorf("configuration context has no package directory")
	}
	if ctx.Target == (target.Triple{}) {
		return nil, fmt.Errorf("configuration context has no target")
	}

	return &Builder{
		ctx:         ctx,
		res:         Result{Name: ctx.ModuleName},
		seenSources: map[string]bool{},
	}, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// resolveDir validates that the path names an existing directory and
// returns it absolute.
func (b *Builder) resolveDir(path string) (string, bool) {
	if b.err != nil {
		return "", false
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(b.ctx.PackageDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		b.fail(fmt.Errorf("path %s does not exist: %w", path, err))
		return "", false
	}
	if !info.IsDir() {
		b.fail(fmt.Errorf("path %s is not a directory", path))
		return "", false
	}

	return path, true
}

// AddSource collects every *.c file under dir, top level only unless
// recursive is set. Files are added in sorted path order; duplicates are
// dropped.
func (b *Builder) AddSource(dir string, recursive bool) {
	abs, ok := b.resolveDir(dir)
	if !ok {
		return
	}

	var files []string
	if recursive {
		err := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".c") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			b.fail(fmt.Errorf("scanning %s: %w", abs, err))
			return
		}
	} else {
		entries, err := os.ReadDir(abs)
		if err != nil {
			b.fail(fmt.Errorf("scanning %s: %w", abs, err))
			return
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".c") {
				files = append(files, filepath.Join(abs, e.Name()))
			}
		}
	}

	sort.Strings(files)
	for _, f := range files {
		if !b.seenSources[f] {
			b.seenSources[f] = true
			b.res.Sources = append(b.res.Sources, f)
		}
	}
}

func (b *Builder) AddIncludeDir(dir string) {
	if abs, ok := b.resolveDir(dir); ok {
		b.res.IncludeDirs = append(b.res.IncludeDirs, abs)
	}
}

func (b *Builder) AddLibraryLookup(dir string) {
	if abs, ok := b.resolveDir(dir); ok {
		b.res.LibraryLookup = append(b.res.LibraryLookup, abs)
	}
}

// DefineMacro accepts a string, a number, or boolean true. A macro
// defined twice keeps its original position with the new value.
func (b *Builder) DefineMacro(name string, value any) {
	if b.err != nil {
		return
	}

	if !cIdent.MatchString(name) {
		b.fail(fmt.Errorf("macro name %q is not a valid C identifier", name))
		return
	}

	m := Macro{Name: name, Value: value}
	if _, err := m.Define(); err != nil {
		b.fail(err)
		return
	}

	for i, existing := range b.res.DefineMacros {
		if existing.Name == name {
			b.res.DefineMacros[i] = m
			return
		}
	}

	b.res.DefineMacros = append(b.res.DefineMacros, m)
}

func (b *Builder) LinkLibrary(name string) {
	if b.err != nil {
		return
	}

	b.res.LinkLibraries = append(b.res.LinkLibraries, name)
}

func (b *Builder) SetLoadingFunctions(names ...string) {
	if b.err != nil {
		return
	}

	for _, name := range names {
		if !cIdent.MatchString(name) {
			b.fail(fmt.Errorf("loading function %q is not a valid C identifier", name))
			return
		}
	}

	b.res.LoadingFunctions = append([]string(nil), names...)
}

func (b *Builder) SetCFlags(flags ...string) {
	if b.err != nil {
		return
	}

	b.res.CFlags = append([]string(nil), flags...)
}

func (b *Builder) SetLFlags(flags ...string) {
	if b.err != nil {
		return
	}

	b.res.LFlags = append([]string(nil), flags...)
}

// Complete freezes the configuration.
func (b *Builder) Complete() (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}

	res := b.res
	return &res, nil
}

// Configuration file names, searched in order.
var fileNames = []string{"yaje.build.js", "yaje.build.mjs", "yaje.build.hcl"}

// Find returns the configuration file for a package folder, or "" when
// the package has no native half.
func Find(dir string) string {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

// Eval evaluates a configuration file found by Find.
func Eval(path string, ctx Context) (*Result, error) {
	if strings.HasSuffix(path, ".hcl") {
		return evalHCL(path, ctx)
	}

	return evalScript(path, ctx)
}
