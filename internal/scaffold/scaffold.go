// Package scaffold writes the initial files of a new project.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

const manifestTemplate = `{
  "name": %q,
  "version": "0.1.0",
  "main": "./src/index.js",
  "dependencies": {
    "@yaje/core": "^1",
    "@yaje/esbuild": "^1"
  }
}
`

const indexJS = `console.log("hello from yaje");
`

const gitignore = `.yaje/
node_modules/
`

// Init creates a minimal project in dir, refusing to overwrite an
// existing manifest.
func Init(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	manifest := filepath.Join(abs, "package.json")
	if _, err := os.Stat(manifest); err == nil {
		return fmt.Errorf("%s already exists", manifest)
	}

	if err := os.MkdirAll(filepath.Join(abs, "src"), 0o755); err != nil {
		return err
	}

	name := filepath.Base(abs)
	files := map[string]string{
		manifest:                              fmt.Sprintf(manifestTemplate, name),
		filepath.Join(abs, "src", "index.js"): indexJS,
		filepath.Join(abs, ".gitignore"):      gitignore,
	}

	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	return nil
}
