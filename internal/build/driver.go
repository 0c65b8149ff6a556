package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CBx0-dev/YAJE/internal/bundler"
	"github.com/CBx0-dev/YAJE/internal/cache"
	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/pkg"
	"github.com/CBx0-dev/YAJE/internal/target"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// Driver runs the whole pipeline: discovery, bundling, native
// compilation and the final link. Phases are strictly sequential.
type Driver struct {
	tc     *toolchain.Toolchain
	target target.Triple
	log    *slog.Logger
	ledger *cache.Ledger
}

func NewDriver(tc *toolchain.Toolchain, t target.Triple, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}

	return &Driver{tc: tc, target: t, log: log}
}

// Run builds the project rooted at projectDir and returns the executable
// path. Every failure is fatal to the build.
func (d *Driver) Run(ctx context.Context, projectDir string) (string, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return "", err
	}

	if err := d.tc.Probe(ctx); err != nil {
		return "", err
	}

	out := NewOutputInformation(projectDir, d.target)
	if err := out.EnsureAll(); err != nil {
		return "", err
	}

	d.openLedger(out)
	defer d.closeLedger()

	// phase: discovery
	log := d.log.With("phase", "discover")
	col := pkg.NewCollection()
	rootName, err := pkg.Discover(projectDir, d.target, col, log)
	if err != nil {
		return "", fmt.Errorf("discovery: %w", err)
	}
	log.Info("packages discovered", "count", len(col.Names()), "root", rootName)

	core, err := col.Core()
	if err != nil {
		return "", fmt.Errorf("discovery: %w", err)
	}

	// phase: bundle
	bundleBytes, err := d.bundle(ctx, col, rootName, out)
	if err != nil {
		return "", fmt.Errorf("bundle: %w", err)
	}

	// phase: native build
	natives := col.NativeModules()

	var archives []string
	var instructions []*cfg.Result
	for _, mod := range natives {
		deps := nativeInstructions(col.NativeDependencies(mod.Manifest.Name))
		instructions = append(instructions, mod.Instructions)

		archive, err := d.compileModule(ctx, out, mod.Instructions, deps)
		if err != nil {
			return "", fmt.Errorf("compile %s: %w", mod.Manifest.Name, err)
		}
		archives = append(archives, archive)
	}

	bundleObject, err := d.embedBundle(ctx, out, bundleBytes, nil)
	if err != nil {
		return "", fmt.Errorf("embed: %w", err)
	}

	var loadingFunctions []string
	for _, mod := range natives {
		loadingFunctions = append(loadingFunctions, mod.Instructions.LoadingFunctions...)
	}

	entryObject, err := d.compileEntry(ctx, out, core.Instructions, loadingFunctions)
	if err != nil {
		return "", fmt.Errorf("entry: %w", err)
	}

	// phase: link
	inputs := append(append([]string(nil), archives...), bundleObject, entryObject)
	executable, err := d.link(ctx, out, inputs, instructions)
	if err != nil {
		return "", fmt.Errorf("link: %w", err)
	}

	d.log.Info("build complete", "executable", executable)
	return executable, nil
}

// bundle selects the bundler package, runs it over the root entry point
// and returns the bundle bytes.
func (d *Driver) bundle(ctx context.Context, col *pkg.Collection, rootName string, out OutputInformation) ([]byte, error) {
	root, _ := col.Get(rootName)
	if root.Manifest.Main == "" {
		return nil, fmt.Errorf("root package %s has no main entry", rootName)
	}
	entry := root.Manifest.Main
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(root.Folder, entry)
	}

	bundlerPkg, err := col.Bundler()
	if err != nil {
		return nil, err
	}

	gw, err := bundler.New(bundlerPkg.Manifest.Name, bundlerPkg.Folder, out.GenFolder, d.runner())
	if err != nil {
		return nil, err
	}

	log := d.log.With("phase", "bundle")
	log.Info("bundling", "bundler", bundlerPkg.Manifest.Name, "entry", entry)

	if err := gw.Init(ctx); err != nil {
		return nil, err
	}

	path, err := gw.Bundle(ctx, entry)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

func (d *Driver) runner() toolchain.Runner {
	return d.tc.Runner()
}

func (d *Driver) openLedger(out OutputInformation) {
	ledger, err := cache.OpenLedger(filepath.Join(out.CacheFolder, "ledger.db"))
	if err != nil {
		d.log.Warn("cache ledger unavailable", "error", err)
		return
	}

	d.ledger = ledger
}

func (d *Driver) closeLedger() {
	if d.ledger != nil {
		d.ledger.Close()
		d.ledger = nil
	}
}

func nativeInstructions(packages []*pkg.TrackedPackage) []*cfg.Result {
	out := make([]*cfg.Result, 0, len(packages))
	for _, p := range packages {
		out = append(out, p.Instructions)
	}

	return out
}
