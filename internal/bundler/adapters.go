package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type esbuild struct{ tool }

func (b *esbuild) Init(ctx context.Context) error { return b.probe(ctx) }

func (b *esbuild) Bundle(ctx context.Context, entry string) (string, error) {
	args := []string{
		entry,
		"--bundle",
		"--format=esm",
		"--platform=neutral",
		"--outfile=" + filepath.Join(b.genFolder, OutputName),
	}
	if err := b.run(ctx, args); err != nil {
		return "", err
	}

	return b.output()
}

type rollup struct{ tool }

func (b *rollup) Init(ctx context.Context) error { return b.probe(ctx) }

func (b *rollup) Bundle(ctx context.Context, entry string) (string, error) {
	args := []string{
		entry,
		"--format", "es",
		"--inlineDynamicImports",
		"--no-sourcemap",
		"--file", filepath.Join(b.genFolder, OutputName),
	}
	if err := b.run(ctx, args); err != nil {
		return "", err
	}

	return b.output()
}

type vite struct{ tool }

func (b *vite) Init(ctx context.Context) error { return b.probe(ctx) }

// viteConfig pins the output to one unminified ES chunk; vite has no
// flag surface for this, so the adapter materializes a config file.
const viteConfig = `export default {
	logLevel: "error",
	build: {
		outDir: %q,
		emptyOutDir: false,
		minify: false,
		sourcemap: false,
		rollupOptions: {
			input: %q,
			output: {
				format: "es",
				inlineDynamicImports: true,
				entryFileNames: %q,
			},
		},
	},
};
`

func (b *vite) Bundle(ctx context.Context, entry string) (string, error) {
	config := filepath.Join(b.genFolder, "vite.config.mjs")
	content := fmt.Sprintf(viteConfig, b.genFolder, entry, OutputName)
	if err := os.WriteFile(config, []byte(content), 0o644); err != nil {
		return "", err
	}
	defer os.Remove(config)

	if err := b.run(ctx, []string{"build", "--config", config}); err != nil {
		return "", err
	}

	return b.output()
}

type webpack struct{ tool }

func (b *webpack) Init(ctx context.Context) error { return b.probe(ctx) }

const webpackConfig = `module.exports = {
	mode: "none",
	entry: %q,
	devtool: false,
	output: {
		path: %q,
		filename: %q,
		module: true,
		library: { type: "module" },
	},
	experiments: { outputModule: true },
	optimization: { minimize: false },
};
`

func (b *webpack) Bundle(ctx context.Context, entry string) (string, error) {
	config := filepath.Join(b.genFolder, "webpack.config.cjs")
	content := fmt.Sprintf(webpackConfig, entry, b.genFolder, OutputName)
	if err := os.WriteFile(config, []byte(content), 0o644); err != nil {
		return "", err
	}
	defer os.Remove(config)

	if err := b.run(ctx, []string{"--config", config}); err != nil {
		return "", err
	}

	return b.output()
}
