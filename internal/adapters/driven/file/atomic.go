// Package file provides filesystem implementations of the driven
// storage ports: the credential backend variant for platforms without a
// usable secure store, the active-token slot, and the registry document
// store.
//
// All writes create files with their final restrictive mode and go
// through a temp-file-then-rename sequence in the destination
// directory. Rename is the only operation that exposes new content, so
// a crash mid-write never leaves a partial or world-readable file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AtomicWrite replaces path with blob. The temp file is created with
// mode perm up front; the mode is never fixed up after the fact.
func AtomicWrite(path string, blob []byte, perm os.FileMode) error {
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp.%s", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(blob); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalising %s: %w", path, err)
	}
	return nil
}
