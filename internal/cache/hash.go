package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Hash computes the incremental key for one translation unit: the joined
// argument vector, then the source bytes, then the bytes of each
// dependency file that currently exists, streamed in order. A dependency
// that has disappeared is skipped rather than failing; the next
// successful header scan will drop it from the list.
func Hash(source string, deps []string, args []string) (string, error) {
	h := sha256.New()
	h.Write([]byte(strings.Join(args, " ")))

	if err := streamFile(h, source); err != nil {
		return "", fmt.Errorf("failed to hash source file: %w", err)
	}

	for _, dep := range deps {
		if err := streamFile(h, dep); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to hash dependency %s: %w", dep, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes hashes an in-memory payload, used for the bundle sidecar.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func streamFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
