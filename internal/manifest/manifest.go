// Package manifest reads and validates package.json files.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
)

// FileName is the manifest file looked up in every package folder.
const FileName = "package.json"

// Manifest is the parsed package.json of one package.
type Manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Main         string            `json:"main"`
	Dependencies map[string]string `json:"dependencies"`
	Bundler      bool              `json:"bundler"`

	// depOrder preserves the declaration order of Dependencies, which
	// drives deterministic discovery.
	depOrder []string
}

// Load reads <dir>/package.json.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("missing manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s has no name", path)
	}

	m.depOrder, err = dependencyOrder(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	for _, name := range m.depOrder {
		rng := m.Dependencies[name]
		if _, err := semver.NewConstraint(rng); err != nil {
			return nil, fmt.Errorf("manifest %s: dependency %s has invalid range %q: %w", path, name, rng, err)
		}
	}

	return &m, nil
}

// DependencyNames returns the dependency names in declaration order.
func (m *Manifest) DependencyNames() []string {
	return m.depOrder
}

// Satisfies reports whether the manifest's version satisfies the given
// range. Manifests without a version trivially satisfy everything; npm
// already enforced the constraint at install time.
func (m *Manifest) Satisfies(rng string) (bool, error) {
	if m.Version == "" {
		return true, nil
	}

	c, err := semver.NewConstraint(rng)
	if err != nil {
		return false, err
	}

	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", m.Version, err)
	}

	return c.Check(v), nil
}

// dependencyOrder re-decodes the raw manifest with a token stream to
// recover the key order of the dependencies object, which
// encoding/json's map decoding discards.
func dependencyOrder(data []byte) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	deps, ok := raw["dependencies"]
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(deps))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("dependencies is not an object")
	}

	var order []string
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}

		order = append(order, key.(string))

		// skip the range value
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
	}

	return order, nil
}
