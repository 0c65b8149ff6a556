package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadSidecar returns the stored hash, or false when the sidecar is
// missing or unreadable. An unreadable sidecar just forces a recompile.
func ReadSidecar(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(data)), true
}

// WriteSidecar records a hash. Callers write the object first and the
// sidecar second, so a crash leaves the cache stale, never falsely fresh.
func WriteSidecar(path, hash string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(hash+"\n"), 0o644)
}

// Fresh reports whether the object exists and the sidecar matches the
// given hash.
func Fresh(object, sidecar, hash string) bool {
	if _, err := os.Stat(object); err != nil {
		return false
	}

	stored, ok := ReadSidecar(sidecar)
	return ok && stored == hash
}
