package build

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/CBx0-dev/YAJE/internal/cache"
)

// BundleSymbolPrefix names the exported payload symbols the core runtime
// expects: JS_BUNDLE_LENGTH and JS_BUNDLE_DATA.
const BundleSymbolPrefix = "JS_BUNDLE"

// bundleSource renders the embedded payload as a C translation unit. A
// NUL sentinel follows the content so the runtime can treat the data as
// a C string; the length constant excludes it.
func bundleSource(prefix string, data []byte) []byte {
	var b bytes.Buffer

	b.WriteString("#include <stddef.h>\n\n")
	fmt.Fprintf(&b, "size_t %s_LENGTH = %d;\n", prefix, len(data))
	fmt.Fprintf(&b, "unsigned char %s_DATA[] = { ", prefix)
	for _, c := range data {
		fmt.Fprintf(&b, "0x%02x, ", c)
	}
	b.WriteString("0x00 };\n")

	return b.Bytes()
}

// embedBundle compiles the bundle bytes into modules/bundle.o, reading
// the generated source from standard input. A bundle.hash sidecar over
// the raw bytes gates the step.
func (d *Driver) embedBundle(ctx context.Context, out OutputInformation, data []byte, extraFlags []string) (string, error) {
	object := filepath.Join(out.ModFolder, "bundle.o")
	sidecar := filepath.Join(out.CacheFolder, "bundle.hash")

	hash := cache.HashBytes(data)
	if cache.Fresh(object, sidecar, hash) {
		d.log.Debug("bundle object is current")
		return object, nil
	}

	args := append(append([]string(nil), extraFlags...),
		"-x", "c", "-c", "-target", d.target.String(), "-", "-o", object)

	src := bundleSource(BundleSymbolPrefix, data)
	if err := d.tc.CompileStdin(ctx, args, bytes.NewReader(src)); err != nil {
		return "", err
	}

	if err := cache.WriteSidecar(sidecar, hash); err != nil {
		return "", err
	}

	return object, nil
}
