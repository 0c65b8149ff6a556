package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/CBx0-dev/YAJE/internal/cache"
	"github.com/CBx0-dev/YAJE/internal/cfg"
)

// entrySource generates the entry-point translation unit. Given the same
// ordered loading-function list the output is byte-identical.
func entrySource(loadingFunctions []string) []byte {
	var b strings.Builder

	b.WriteString("#include \"yaje.h\"\n\n")

	for _, fn := range loadingFunctions {
		b.WriteString("extern void " + fn + "(JSRuntime *rt, JSContext *ctx);\n")
	}
	if len(loadingFunctions) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("void yaje_core_load_modules(JSRuntime *rt, JSContext *ctx) {\n")
	for _, fn := range loadingFunctions {
		b.WriteString("    " + fn + "(rt, ctx);\n")
	}
	if len(loadingFunctions) == 0 {
		b.WriteString("    (void)rt;\n    (void)ctx;\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("int main(int argc, char **argv) {\n")
	b.WriteString("    (void)argc;\n")
	b.WriteString("    (void)argv;\n\n")
	b.WriteString("    JSRuntime *rt = NULL;\n")
	b.WriteString("    JSContext *ctx = NULL;\n\n")
	b.WriteString("    yaje_core_ctor(&rt, &ctx);\n")
	b.WriteString("    yaje_core_load_modules(rt, ctx);\n\n")
	b.WriteString("    int status = yaje_core_execute(rt, ctx);\n\n")
	b.WriteString("    yaje_core_free(&rt, &ctx);\n")
	b.WriteString("    return status;\n")
	b.WriteString("}\n")

	return []byte(b.String())
}

// compileEntry writes gen/main.c wiring every loading function in
// discovery order and compiles it against the core's include dirs, with
// the same sidecar discipline as module objects.
func (d *Driver) compileEntry(ctx context.Context, out OutputInformation, core *cfg.Result, loadingFunctions []string) (string, error) {
	source := filepath.Join(out.GenFolder, "main.c")
	object := filepath.Join(out.ModFolder, "main.o")
	sidecar := filepath.Join(out.CacheFolder, "main.hash")

	if err := os.WriteFile(source, entrySource(loadingFunctions), 0o644); err != nil {
		return "", err
	}

	var args []string
	for _, dir := range core.IncludeDirs {
		args = append(args, "-I", dir)
	}
	args = append(args, "-g", "-fwrapv", "-Wall", "-c")

	hash, err := cache.Hash(source, nil, args)
	if err != nil {
		return "", err
	}

	if cache.Fresh(object, sidecar, hash) {
		d.log.Debug("entry object is current")
		return object, nil
	}

	d.log.Info("compiling entry point")
	if err := d.tc.Compile(ctx, args, source, object); err != nil {
		return "", err
	}

	if err := cache.WriteSidecar(sidecar, hash); err != nil {
		return "", err
	}

	return object, nil
}
