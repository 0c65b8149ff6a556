package build

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CBx0-dev/YAJE/internal/cache"
	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// archiveName derives the static-library name from the object folder
// path. The digest avoids collisions between modules, not content
// changes; link order is what keeps the build correct.
func archiveName(objectDir string) string {
	sum := sha256.Sum256([]byte(objectDir))
	return "lib_" + base64.RawURLEncoding.EncodeToString(sum[:])[:12] + ".a"
}

// objectNames maps each source to an object base name, disambiguating
// duplicate basenames with a running counter.
func objectNames(sources []string) []string {
	counts := map[string]int{}
	names := make([]string, len(sources))

	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), ".c")
		if n := counts[base]; n > 0 {
			names[i] = fmt.Sprintf("%s_%d", base, n)
		} else {
			names[i] = base
		}
		counts[base]++
	}

	return names
}

// compileModule compiles every source of mod that is stale, then
// recreates the module archive. Archiving is cheap and unconditional;
// the incremental logic lives at the object layer.
func (d *Driver) compileModule(ctx context.Context, out OutputInformation, mod *cfg.Result, deps []*cfg.Result) (string, error) {
	args, err := toolchain.Args(mod, deps, toolchain.BaseCFlags(d.target))
	if err != nil {
		return "", err
	}

	objectDir := filepath.Join(out.ObjFolder, mod.Name)
	cacheDir := filepath.Join(out.CacheFolder, mod.Name)
	for _, dir := range []string{objectDir, cacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	log := d.log.With("module", mod.Name)
	names := objectNames(mod.Sources)

	var objects []string
	for i, src := range mod.Sources {
		object := filepath.Join(objectDir, names[i]+".o")
		sidecar := filepath.Join(cacheDir, names[i]+".hash")
		objects = append(objects, object)

		headerDeps := d.tc.HeaderDeps(ctx, args, src)

		hash, err := cache.Hash(src, headerDeps, args)
		if err != nil {
			return "", err
		}

		if cache.Fresh(object, sidecar, hash) {
			log.Debug("object is current", "source", src)
			continue
		}

		log.Info("compiling", "source", src)
		start := time.Now()
		compileErr := d.tc.Compile(ctx, args, src, object)
		d.record(cache.Entry{
			Hash:      hash,
			Module:    mod.Name,
			Source:    src,
			Object:    object,
			Timestamp: start.UTC(),
			Duration:  time.Since(start),
			Success:   compileErr == nil,
		})
		if compileErr != nil {
			return "", compileErr
		}

		// object first, sidecar second: a crash leaves the cache stale,
		// never falsely fresh
		if err := cache.WriteSidecar(sidecar, hash); err != nil {
			return "", err
		}
	}

	archive := filepath.Join(out.ModFolder, archiveName(objectDir))
	if err := d.tc.Archive(ctx, archive, objects); err != nil {
		return "", err
	}

	return archive, nil
}

// record writes to the ledger when one is attached; ledger failures
// never fail the build.
func (d *Driver) record(e cache.Entry) {
	if d.ledger == nil {
		return
	}

	if err := d.ledger.Record(e); err != nil {
		d.log.Warn("failed to record compile in ledger", "error", err)
	}
}
